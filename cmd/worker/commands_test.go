package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpworks/lp-intake-backend/internal/projects/domain"
)

func TestRootCmd_Commands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"number", "list", "snapshot", "backup-registry"}, names)
}

func TestRootCmd_ArgValidation(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"number"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	assert.Error(t, root.Execute())
}

func TestPrintSummaries(t *testing.T) {
	at := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	require.NoError(t, printSummaries(&buf, []domain.Summary{
		{ProjectID: "p1", ProjectNumber: "2026-001", BasicInfo: domain.Fields{domain.FieldServiceName: "Widget"}, UpdatedAt: &at, Source: domain.SourceDrive},
		{ProjectID: "p2", ProjectNumber: "2026-002", Source: domain.SourceTemp},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "NUMBER"))
	assert.Contains(t, lines[1], "Widget")
	assert.Contains(t, lines[1], "drive")
	assert.True(t, strings.HasSuffix(lines[2], "-"))
}
