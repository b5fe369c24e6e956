package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestSimpleDirectoryReaderLoadsTextFiles(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "readme.md", "# Hello")
	writeTestFile(t, dir, "notes/ideas.txt", "some ideas")
	writeTestFile(t, dir, "binary.png", "\x89PNG")

	reader := NewSimpleDirectoryReader(dir)
	docs, err := reader.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("docs = %d, want 2", len(docs))
	}

	byID := make(map[string]Document)
	for _, doc := range docs {
		byID[doc.ID] = doc
	}
	if _, ok := byID["readme.md"]; !ok {
		t.Error("missing readme.md")
	}
	if doc, ok := byID["notes/ideas.txt"]; !ok {
		t.Error("missing notes/ideas.txt")
	} else if doc.Metadata["file_path"] != "notes/ideas.txt" {
		t.Errorf("file_path = %q", doc.Metadata["file_path"])
	}
}

func TestSimpleDirectoryReaderSkipsDotDirs(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "kept.md", "kept")
	writeTestFile(t, dir, ".git/config.md", "hidden")

	reader := NewSimpleDirectoryReader(dir)
	docs, err := reader.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("docs = %d, want 1", len(docs))
	}
	if docs[0].ID != "kept.md" {
		t.Errorf("doc id = %q, want kept.md", docs[0].ID)
	}
}

func TestSimpleDirectoryReaderCustomExtensions(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "code.go", "package main")
	writeTestFile(t, dir, "notes.md", "notes")

	reader := NewSimpleDirectoryReader(dir, ".go")
	docs, err := reader.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("docs = %d, want 1", len(docs))
	}
	if docs[0].ID != "code.go" {
		t.Errorf("doc id = %q, want code.go", docs[0].ID)
	}
}

func TestSimpleDirectoryReaderCanceledContext(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.md", "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := NewSimpleDirectoryReader(dir)
	if _, err := reader.Load(ctx); err == nil {
		t.Fatal("expected error with canceled context")
	}
}
