package pathutil

import (
	"testing"

	"github.com/localcode/lci/internal/lcierrors"
	"github.com/stretchr/testify/require"
)

func TestValidateRejectsTraversal(t *testing.T) {
	_, err := Validate("/repo/root", "../etc/passwd")
	require.Error(t, err)
	require.True(t, lcierrors.IsKind(err, lcierrors.PathTraversal))
}

func TestValidateRejectsAbsolute(t *testing.T) {
	_, err := Validate("/repo/root", "/abs")
	require.Error(t, err)
	require.True(t, lcierrors.IsKind(err, lcierrors.InvalidPath))
}

func TestValidateRejectsEmpty(t *testing.T) {
	_, err := Validate("/repo/root", "")
	require.Error(t, err)
	require.True(t, lcierrors.IsKind(err, lcierrors.InvalidPath))
}

func TestValidateAcceptsNested(t *testing.T) {
	abs, err := Validate("/repo/root", "src/api.rs")
	require.NoError(t, err)
	require.Equal(t, "/repo/root/src/api.rs", abs)
}

func TestToRelative(t *testing.T) {
	require.Equal(t, "src/main.go", ToRelative("/home/user/project/src/main.go", "/home/user/project"))
	require.Equal(t, "/other/location/file.go", ToRelative("/other/location/file.go", "/home/user/project"))
}
