package msig_test

import (
	"testing"

	msig "github.com/bhau7233/MSig"
	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	defer func(commit string) { msig.GitCommit = commit }(msig.GitCommit)

	msig.GitCommit = ""
	assert.Equal(t, "v0.1.0-dev", msig.Version())

	msig.GitCommit = "12345678"
	assert.Equal(t, "v0.1.0-dev 12345678", msig.Version())
}
