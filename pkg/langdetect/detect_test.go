package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/jotdown/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{name: "shebang bash", source: "#!/bin/bash\necho hello", want: "bash"},
		{name: "shebang python", source: "#!/usr/bin/env python3\nprint('hello')", want: "python"},
		{name: "go package", source: "package main\n\nfunc main() {}\n", want: "go"},
		{name: "python def", source: "def foo():\n    pass\n", want: "python"},
		{name: "html document", source: "<!DOCTYPE html>\n<html></html>", want: "html"},
		{name: "json object", source: `{"key": "value", "n": 1}`, want: "json"},
		{name: "sql select", source: "select * from users;", want: "sql"},
		{name: "rust main", source: "fn main() {\n    let mut x = 1;\n}", want: "rust"},
		{name: "javascript arrow", source: "const f = () => 42;", want: "javascript"},
		{name: "yaml mapping", source: "name: jotdown\nversion: 1\n", want: "yaml"},
		{name: "empty", source: "", want: langdetect.Unknown},
		{name: "whitespace", source: " \n\t", want: langdetect.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, langdetect.Detect(tt.source))
		})
	}
}

func TestSupported(t *testing.T) {
	t.Parallel()

	assert.True(t, langdetect.Supported("go"))
	assert.True(t, langdetect.Supported("python"))
	assert.False(t, langdetect.Supported(langdetect.Unknown))
	assert.False(t, langdetect.Supported("no-such-language"))
}
