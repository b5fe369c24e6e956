package internal

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
)

// Reader loads source content as documents.
type Reader interface {
	Load(ctx context.Context) ([]Document, error)
}

var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".markdown": true, ".rst": true,
	".html": true, ".htm": true, ".json": true, ".yaml": true,
	".yml": true, ".csv": true, ".go": true, ".py": true,
}

var _ Reader = (*SimpleDirectoryReader)(nil)

// SimpleDirectoryReader walks a directory and reads every text file
// into a document keyed by its relative path.
type SimpleDirectoryReader struct {
	root       string
	extensions map[string]bool
}

func NewSimpleDirectoryReader(root string, extensions ...string) *SimpleDirectoryReader {
	exts := textExtensions
	if len(extensions) > 0 {
		exts = make(map[string]bool, len(extensions))
		for _, ext := range extensions {
			exts[ext] = true
		}
	}
	return &SimpleDirectoryReader{root: root, extensions: exts}
}

func (r *SimpleDirectoryReader) Load(ctx context.Context) ([]Document, error) {
	var docs []Document

	err := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != r.root {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !r.extensions[filepath.Ext(path)] {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		rel, err := filepath.Rel(r.root, path)
		if err != nil {
			rel = path
		}

		doc := NewDocument(filepath.ToSlash(rel), string(data))
		doc.Metadata["file_path"] = filepath.ToSlash(rel)
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", r.root, err)
	}

	return docs, nil
}

var _ Reader = (*GitRepositoryReader)(nil)

// GitRepositoryReader clones a repository into memory and reads its
// text files at the given ref (default branch when empty).
type GitRepositoryReader struct {
	url        string
	ref        string
	extensions map[string]bool
}

func NewGitRepositoryReader(url, ref string) *GitRepositoryReader {
	return &GitRepositoryReader{
		url:        url,
		ref:        ref,
		extensions: textExtensions,
	}
}

func (r *GitRepositoryReader) Load(ctx context.Context) ([]Document, error) {
	wt := memfs.New()

	cloneOpts := &git.CloneOptions{
		URL:   r.url,
		Depth: 1,
	}
	if r.ref != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(r.ref)
		cloneOpts.SingleBranch = true
	}

	if _, err := git.CloneContext(ctx, memory.NewStorage(), wt, cloneOpts); err != nil {
		return nil, fmt.Errorf("clone %s: %w", r.url, err)
	}

	var docs []Document
	if err := r.walk(ctx, wt, "/", &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *GitRepositoryReader) walk(ctx context.Context, wt billy.Filesystem, dir string, docs *[]Document) error {
	entries, err := wt.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.ToSlash(filepath.Join(dir, entry.Name()))
		if entry.IsDir() {
			if strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			if err := r.walk(ctx, wt, path, docs); err != nil {
				return err
			}
			continue
		}
		if !r.extensions[filepath.Ext(entry.Name())] {
			continue
		}

		f, err := wt.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		rel := strings.TrimPrefix(path, "/")
		doc := NewDocument(rel, string(data))
		doc.Metadata["file_path"] = rel
		doc.Metadata["repository"] = r.url
		*docs = append(*docs, doc)
	}

	return nil
}
