package repo

// Direction selects which side of the import graph ResolveImports walks.
type Direction string

const (
	DirectionImports    Direction = "imports"
	DirectionImportedBy Direction = "imported_by"
	DirectionBoth       Direction = "both"
)

// ImportResult is the two-sided answer a resolve-imports operation
// returns; whichever side wasn't asked for comes back empty.
type ImportResult struct {
	Imports    []string
	ImportedBy []string
}

// ResolveImports looks path up in the repo's import graph along
// direction.
func (r *Repo) ResolveImports(path string, direction Direction) ImportResult {
	var out ImportResult
	if direction == DirectionImports || direction == DirectionBoth {
		out.Imports = r.Scan.Graph.Imports[path]
	}
	if direction == DirectionImportedBy || direction == DirectionBoth {
		out.ImportedBy = r.Scan.Graph.ImportedBy[path]
	}
	return out
}
