package config_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Dwoggurd/Ptree-Loader/internal/config"
)

func TestAddPreservesOrderAndDuplicates(t *testing.T) {
	t.Parallel()

	// Arrange
	root := &config.Node{}

	// Act
	root.Add("alpha", &config.Node{Value: "1"})
	root.Add("beta", &config.Node{Value: "2"})
	root.Add("alpha", &config.Node{Value: "3"})

	// Assert
	require.Equal(t, 3, root.Len())
	var keys []string
	var values []string
	for _, c := range root.Children {
		keys = append(keys, c.Key)
		values = append(values, c.Node.Value)
	}
	require.Equal(t, []string{"alpha", "beta", "alpha"}, keys)
	require.Equal(t, []string{"1", "2", "3"}, values)
}

func TestAddNilChildAllocatesSubtree(t *testing.T) {
	t.Parallel()

	root := &config.Node{}
	child := root.Add("empty", nil)

	require.NotNil(t, child)
	require.Same(t, child, root.Children[0].Node)
}

func TestAddReturnsAppendedChild(t *testing.T) {
	t.Parallel()

	root := &config.Node{}
	section := root.Add("section", &config.Node{})
	section.Add("nested", &config.Node{Value: "x"})

	require.Equal(t, "x", root.Get("section").Get("nested").Value)
}

func TestGetReturnsFirstMatch(t *testing.T) {
	t.Parallel()

	root := &config.Node{}
	root.Add("dup", &config.Node{Value: "first"})
	root.Add("dup", &config.Node{Value: "second"})

	require.Equal(t, "first", root.Get("dup").Value)
}

func TestGetMissingKeyReturnsNil(t *testing.T) {
	t.Parallel()

	root := &config.Node{}
	root.Add("present", &config.Node{})

	require.Nil(t, root.Get("absent"))
}

func TestParseErrorUnwraps(t *testing.T) {
	t.Parallel()

	cause := errors.New("unexpected token")
	err := &config.ParseError{Path: "conf.yml", Err: cause}

	require.EqualError(t, err, "parse conf.yml: unexpected token")
	require.ErrorIs(t, err, cause)
}

func TestSerializeErrorUnwraps(t *testing.T) {
	t.Parallel()

	cause := errors.New("bad key")
	err := &config.SerializeError{Err: cause}

	require.EqualError(t, err, "serialize tree: bad key")
	require.ErrorIs(t, err, cause)
}
