package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/talentflow-assessment/internal/validator"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCheckFile(t *testing.T) {
	v := validator.New()

	valid := writeFile(t, "ok.yaml", `
title: Ops
sections:
  - id: s1
    title: ""
    questions:
      - id: q1
        type: multi-choice
        label: Clouds
        options:
          - {id: a, value: AWS}
          - {id: b, value: GCP}
`)
	assert.NoError(t, checkFile(v, valid))

	duplicate := writeFile(t, "dup.json", `{"title":"x","sections":[{"id":"s","questions":[
		{"id":"q","type":"short-text"},{"id":"q","type":"long-text"}]}]}`)
	err := checkFile(v, duplicate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sections[0].questions[1].id")

	schema := writeFile(t, "bad.json", `{"title":"x","sections":[{"id":"s","questions":[{"id":"q","type":"rating"}]}]}`)
	assert.Error(t, checkFile(v, schema))

	assert.Error(t, checkFile(v, writeFile(t, "doc.txt", "title: x")))
}

func TestCheckCommand(t *testing.T) {
	good := writeFile(t, "good.json", `{"title":"x","sections":[]}`)
	bad := writeFile(t, "bad.json", `{"sections":[]}`)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"check", good, bad})

	err := rootCmd.Execute()
	assert.EqualError(t, err, "1 of 2 documents invalid")
	assert.Contains(t, stdout.String(), good+": ok")
	assert.Contains(t, stderr.String(), bad+":")
}
