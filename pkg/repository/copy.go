package repository

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/skillsync/pkg/errors"
)

// copyTree copies the directory tree at src to dest. Symlinks inside a
// skill are copied as links, not followed.
func copyTree(src, dest string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path)
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			linkDest, err := os.Readlink(path)
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "cannot read link %s", path)
			}
			return os.Symlink(linkDest, target)
		case info.IsDir():
			return os.MkdirAll(target, info.Mode().Perm())
		default:
			return copyFile(path, target, info.Mode().Perm())
		}
	})
}

func copyFile(src, dest string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot open %s", src)
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(dest))
	}

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "cannot create %s", dest)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, errors.ErrFileCreate, "cannot write %s", dest)
	}
	return out.Close()
}

// extractArchive extracts a .skill or .zip archive into dest. Entries
// that would escape dest are rejected.
func extractArchive(archivePath, dest string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return errors.Wrapf(err, errors.ErrArchiveRead, "cannot open archive %s", archivePath)
	}
	defer func() { _ = reader.Close() }()

	if err := os.MkdirAll(dest, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", dest)
	}

	for _, file := range reader.File {
		if err := extractEntry(file, dest); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(file *zip.File, dest string) error {
	rel := filepath.Clean(filepath.FromSlash(file.Name))
	if rel == "." {
		return nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) || filepath.IsAbs(rel) {
		return errors.Newf(errors.ErrArchiveRead, "archive entry %q escapes the destination", file.Name)
	}
	target := filepath.Join(dest, rel)

	if file.FileInfo().IsDir() {
		if err := os.MkdirAll(target, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", target)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(target))
	}

	in, err := file.Open()
	if err != nil {
		return errors.Wrapf(err, errors.ErrArchiveRead, "cannot read archive entry %s", file.Name)
	}
	defer func() { _ = in.Close() }()

	perm := file.Mode().Perm()
	if perm == 0 {
		perm = 0644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "cannot create %s", target)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, errors.ErrFileCreate, "cannot write %s", target)
	}
	return out.Close()
}
