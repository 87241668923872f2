package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/mirryi/isc/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const danglingElse = `{
	"name": "stmt",
	"start": "S",
	"terminals": [
		{"name": "if"},
		{"name": "then"},
		{"name": "else"},
		{"name": "cond", "pattern": "c"},
		{"name": "other", "pattern": "o"},
		{"name": "ws", "pattern": "[ ]+", "skip": true}
	],
	"productions": [
		{"lhs": "S", "rhs": ["if", "cond", "then", "S"]},
		{"lhs": "S", "rhs": ["if", "cond", "then", "S", "else", "S"]},
		{"lhs": "S", "rhs": ["other"]}
	]
}`

func TestWriteReport(t *testing.T) {
	desc, err := readDescription(strings.NewReader(danglingElse))
	require.NoError(t, err)
	gram, err := grammar.New(desc)
	require.NoError(t, err)
	tab, err := grammar.Compile(gram, grammar.EnableReporting())
	require.NoError(t, err)
	require.NotNil(t, tab.Report())

	var b strings.Builder
	require.NoError(t, writeReport(&b, tab.Report()))
	out := b.String()
	assert.Contains(t, out, "# stmt (lalr1)")
	assert.Contains(t, out, "1 conflict occurred and resolved implicitly.")
	assert.Contains(t, out, "S → if cond then S else S")
	assert.Contains(t, out, "## State 0")
	assert.Contains(t, out, "accept on <eof>")
	assert.Contains(t, out, "shift/reduce conflict")
}

func TestReadDescription_Malformed(t *testing.T) {
	_, err := readDescription(strings.NewReader(`{"name": `))
	assert.Error(t, err)
}

func TestMakeOutputFilePaths(t *testing.T) {
	dir := t.TempDir()

	cgramPath, reportPath, err := makeOutputFilePaths("expr", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "expr.json"), cgramPath)
	assert.Equal(t, filepath.Join(dir, "expr-report.json"), reportPath)

	out := filepath.Join(dir, "out", "compiled.json")
	cgramPath, reportPath, err = makeOutputFilePaths("expr", out)
	require.NoError(t, err)
	assert.Equal(t, out, cgramPath)
	assert.Equal(t, filepath.Join(dir, "out", "expr-report.json"), reportPath)

	cgramPath, reportPath, err = makeOutputFilePaths("expr", "")
	require.NoError(t, err)
	assert.Equal(t, "", cgramPath)
	assert.Equal(t, "expr-report.json", filepath.Base(reportPath))
}
