// Package scaffold writes a starter workspace (env file, groups list, README)
// into a directory.
package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"
)

//go:embed all:template
var bundled embed.FS

const templateRoot = "template"

// Template returns the bundled workspace template rooted at its top directory.
func Template() fs.FS {
	sub, err := fs.Sub(bundled, templateRoot)
	if err != nil {
		// templateRoot is embedded at build time.
		panic(err)
	}
	return sub
}

// Result lists what a copy did, as paths relative to the destination.
type Result struct {
	Written []string `json:"written"`
	Skipped []string `json:"skipped"`
}

// CopyFS recursively copies src into dest on dst. Existing files are left
// alone and reported as skipped unless force is set.
func CopyFS(dst afero.Fs, src fs.FS, dest string, force bool) (*Result, error) {
	if dest == "" {
		return nil, errors.New("destination directory is required")
	}
	if err := dst.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dest, err)
	}

	res := &Result{Written: []string{}, Skipped: []string{}}
	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == "." {
			return nil
		}
		target := filepath.Join(dest, filepath.FromSlash(p))
		if d.IsDir() {
			return dst.MkdirAll(target, 0o755)
		}

		if !force {
			exists, err := afero.Exists(dst, target)
			if err != nil {
				return fmt.Errorf("stat %s: %w", target, err)
			}
			if exists {
				res.Skipped = append(res.Skipped, path.Clean(p))
				return nil
			}
		}
		if err := copyFile(dst, src, p, target); err != nil {
			return err
		}
		res.Written = append(res.Written, path.Clean(p))
		return nil
	})
	if err != nil {
		return res, err
	}
	return res, nil
}

func copyFile(dst afero.Fs, src fs.FS, from, to string) error {
	in, err := src.Open(from)
	if err != nil {
		return fmt.Errorf("open template %s: %w", from, err)
	}
	defer in.Close()

	out, err := dst.OpenFile(to, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", to, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", to, err)
	}
	return out.Close()
}
