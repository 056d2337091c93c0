package budget

import (
	"math"
	"sort"
	"strings"

	"github.com/localcode/lci/internal/scan"
	"github.com/localcode/lci/internal/stub"
)

// applyPhase1bConnectivity adds the dependency-connectivity importance
// bonus: files belonging to a module reachable from a high-importance
// file's module (but not itself one of those modules) get +5.0
// importance.
func applyPhase1bConnectivity(in Input, files []*loaded) {
	if strings.TrimSpace(in.Query) == "" || len(in.Deps) == 0 {
		return
	}

	matched := map[string]bool{}
	for _, f := range files {
		if f.loadErr != nil || f.importance < 3.0 {
			continue
		}
		if m, ok := longestPrefixModule(f.category, in.Deps); ok {
			matched[m] = true
		}
	}
	if len(matched) == 0 {
		return
	}

	connected := map[string]bool{}
	for m := range matched {
		d := in.Deps[m]
		for _, p := range d.Public {
			connected[p] = true
		}
		for _, p := range d.Private {
			connected[p] = true
		}
		for _, r := range in.ReverseDeps[m] {
			connected[r] = true
		}
	}
	for m := range matched {
		delete(connected, m)
	}
	if len(connected) == 0 {
		return
	}

	for _, f := range files {
		if f.loadErr != nil {
			continue
		}
		if m, ok := longestPrefixModule(f.category, in.Deps); ok && connected[m] {
			f.importance += connectivityBonus
		}
	}
}

// longestPrefixModule finds the dependency module whose category path is
// the longest prefix of category.
func longestPrefixModule(category string, deps map[string]scan.DepEntry) (string, bool) {
	best := ""
	bestLen := -1
	found := false
	for name, d := range deps {
		if d.Category == "" {
			continue
		}
		if strings.HasPrefix(category, d.Category) && len(d.Category) > bestLen {
			best, bestLen, found = name, len(d.Category), true
		}
	}
	return best, found
}

func trivialFit(live []*loaded, budget int) bool {
	sum := 0
	for _, f := range live {
		sum += f.tier1Cost
	}
	return sum <= budget
}

// waterFill runs the up-to-five-pass proportional allocation, returning
// each file's total cost budget (manifest cost plus its upgrade share).
func waterFill(live []*loaded, budget int) map[string]float64 {
	sumManifest := 0
	for _, f := range live {
		sumManifest += f.manifestCost
	}
	upgradeBudget := float64(budget - sumManifest)
	if upgradeBudget < 0 {
		upgradeBudget = 0
	}

	locked := map[string]Tier{}

	for pass := 0; pass < maxWaterFillPasses; pass++ {
		var unlocked []*loaded
		for _, f := range live {
			if _, ok := locked[f.relPath]; !ok {
				unlocked = append(unlocked, f)
			}
		}
		if len(unlocked) == 0 {
			break
		}

		sumWeight := 0.0
		for _, f := range unlocked {
			sumWeight += weightOf(f)
		}

		changed := false
		for _, f := range unlocked {
			tier1Upgrade := float64(f.tier1Cost - f.manifestCost)
			if tier1Upgrade <= 0 {
				locked[f.relPath] = Tier1
				changed = true
				continue
			}

			var idealShare float64
			if sumWeight > 0 {
				idealShare = weightOf(f) / sumWeight * upgradeBudget
			}

			switch {
			case idealShare >= tier1Upgrade:
				locked[f.relPath] = Tier1
				upgradeBudget -= tier1Upgrade
				changed = true
			case idealShare < minUsefulShare:
				locked[f.relPath] = Tier4
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	shares := make(map[string]float64, len(live))
	var stillUnlocked []*loaded
	for _, f := range live {
		switch locked[f.relPath] {
		case Tier1:
			shares[f.relPath] = float64(f.tier1Cost)
		case Tier4:
			shares[f.relPath] = float64(f.manifestCost)
		default:
			stillUnlocked = append(stillUnlocked, f)
		}
	}

	sumWeight := 0.0
	for _, f := range stillUnlocked {
		sumWeight += weightOf(f)
	}
	for _, f := range stillUnlocked {
		share := 0.0
		if sumWeight > 0 {
			share = weightOf(f) / sumWeight * upgradeBudget
		}
		shares[f.relPath] = float64(f.manifestCost) + share
	}

	return shares
}

func weightOf(f *loaded) float64 {
	if f.importance <= 0 {
		return 0
	}
	return math.Pow(f.importance, 1.5)
}

// applyPhase4 applies a file's budget share: full tier-1 if it fits,
// block-pruned text if tier-1 doesn't fit but something does, else
// tier-4's manifest line.
func applyPhase4(f *loaded, fb float64, in Input) (string, Tier) {
	if fb <= 0 {
		return f.manifest, Tier4
	}
	if fb >= float64(f.tier1Cost) {
		return f.tier1, Tier1
	}

	family := stub.ClassifyFamily(f.ext)
	blocks := stub.ParseBlocks(f.tier1, family, in.Counter)
	if len(blocks) == 0 {
		return f.manifest, Tier4
	}

	queryTerms := strings.Fields(strings.ToLower(in.Query))
	type scored struct {
		idx   int
		block stub.Block
		score float64
	}
	ranked := make([]scored, len(blocks))
	for i, b := range blocks {
		ranked[i] = scored{idx: i, block: b, score: blockScore(b, queryTerms)}
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })

	selectedFull := map[int]bool{}
	selectedSummary := map[int]bool{}
	remaining := fb
	for _, r := range ranked {
		fullCost := float64(blockCost(r.block, true, in.Unit))
		summaryCost := float64(blockCost(r.block, false, in.Unit))
		switch {
		case remaining >= fullCost:
			selectedFull[r.idx] = true
			remaining -= fullCost
		case r.block.SummaryText != "" && remaining >= summaryCost:
			selectedSummary[r.idx] = true
			remaining -= summaryCost
		}
	}

	var sb strings.Builder
	for i, b := range blocks {
		switch {
		case selectedFull[i]:
			sb.WriteString(b.FullText)
			sb.WriteString("\n")
		case selectedSummary[i]:
			sb.WriteString(b.SummaryText)
			sb.WriteString("\n")
		}
	}
	result := strings.TrimRight(sb.String(), "\n")
	if strings.TrimSpace(result) == "" {
		return f.manifest, Tier4
	}
	return result, Tier2
}

func blockCost(b stub.Block, full bool, unit string) int {
	if unit == "chars" {
		if full {
			return len(b.FullText)
		}
		return len(b.SummaryText)
	}
	if full {
		return b.FullTokens
	}
	return b.SummaryTokens
}

// blockScore computes a block's base-kind weight plus a query-match
// bonus: an identifier hit scores higher than a plain text hit.
func blockScore(b stub.Block, queryTerms []string) float64 {
	base := 0.5
	switch b.Kind {
	case stub.BlockFunctionSig:
		base = 3.0
	case stub.BlockClassDecl:
		base = 2.5
	case stub.BlockMacroDecl, stub.BlockAnnotated:
		base = 1.5
	case stub.BlockMisc, stub.BlockIncludeGroup:
		base = 0.5
	}

	bonus := 0.0
	lowerFull := strings.ToLower(b.FullText)
	for _, term := range queryTerms {
		if term == "" {
			continue
		}
		if b.Identifier != "" && strings.Contains(b.Identifier, term) {
			bonus += 10
		} else if strings.Contains(lowerFull, term) {
			bonus += 3
		}
	}
	return base + bonus
}

// applyPhase5SafetyValve demotes files to tier-4 in ascending-importance
// order until the total assigned cost fits the budget.
func applyPhase5SafetyValve(results map[string]FileResult, live []*loaded, in Input) {
	total := 0
	for _, f := range live {
		total += results[f.relPath].Tokens
	}
	if total <= in.Budget {
		return
	}

	sorted := append([]*loaded{}, live...)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].importance < sorted[b].importance })

	for _, f := range sorted {
		r := results[f.relPath]
		if r.Tier == Tier4 {
			continue
		}
		total -= r.Tokens
		r.Content = f.manifest
		r.Tier = Tier4
		r.Tokens = cost(f.manifest, in.Unit, in.Counter)
		total += r.Tokens
		results[f.relPath] = r
		if total <= in.Budget {
			return
		}
	}
}

// finalize orders results by descending importance, assigns the
// monotonically increasing order index, and computes the summary.
func finalize(results map[string]FileResult, live []*loaded, in Input) (map[string]FileResult, Summary, error) {
	sorted := append([]*loaded{}, live...)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].importance > sorted[b].importance })
	for i, f := range sorted {
		r := results[f.relPath]
		r.Order = i
		results[f.relPath] = r
	}

	summary := Summary{Budget: in.Budget, Unit: in.Unit, TierCounts: map[Tier]int{}}
	for _, r := range results {
		summary.TotalTokens += in.Counter.Count(r.Content)
		summary.TotalChars += len(r.Content)
		summary.TierCounts[r.Tier]++
		summary.FileCount++
	}
	return results, summary, nil
}
