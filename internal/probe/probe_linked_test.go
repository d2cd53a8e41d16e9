package probe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	_ "github.com/roach88/linkcheck/internal/capability/runtimeonly"
	"github.com/roach88/linkcheck/internal/checker"
	"github.com/roach88/linkcheck/internal/probe"
	"github.com/roach88/linkcheck/internal/resolve"
)

func TestRun_DefaultRegistryWithRuntimeOnly(t *testing.T) {
	assert.Equal(t, checker.StatusConsistentTrue, probe.Run(resolve.Default()))
}
