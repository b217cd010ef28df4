package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"example.com/sbdgate/internal/sbd"
)

// NotADirectoryError reports a filesystem root that exists but is not a
// directory.
type NotADirectoryError struct {
	Path string
}

func (e NotADirectoryError) Error() string {
	return fmt.Sprintf("storage root is not a directory: %s", e.Path)
}

// Filesystem stores each message as one .sbd file under a fixed hierarchy:
// root, IMEI, four-digit year, two-digit month, then a file named for the
// session timestamp. Two sessions from the same device in the same second
// map to the same path and the later write wins.
type Filesystem struct {
	root string
}

// OpenFilesystem returns a filesystem backend rooted at root. The root must
// already exist and be a directory.
func OpenFilesystem(root string) (*Filesystem, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("storage root: %w", err)
	}
	if !info.IsDir() {
		return nil, NotADirectoryError{Path: root}
	}
	return &Filesystem{root: root}, nil
}

// Root returns the backend's root directory.
func (f *Filesystem) Root() string { return f.root }

// Store writes the message to its place in the hierarchy, creating
// intermediate directories as needed.
func (f *Filesystem) Store(m *sbd.Message) error {
	path := f.pathFor(m)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create message directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create message file: %w", err)
	}
	if err := m.WriteTo(file); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func (f *Filesystem) pathFor(m *sbd.Message) string {
	at := m.Header().TimeOfSession
	return filepath.Join(
		f.root,
		m.IMEI(),
		at.Format("2006"),
		at.Format("01"),
		at.Format("060102_150405")+".sbd",
	)
}

// Messages walks the hierarchy and decodes every .sbd file, oldest session
// first. Files that fail to decode are reported together after the walk;
// the successfully decoded messages are still returned.
func (f *Filesystem) Messages() ([]*sbd.Message, error) {
	return f.walk(f.root)
}

// MessagesFromIMEI reads only the subtree belonging to one device.
func (f *Filesystem) MessagesFromIMEI(imei string) ([]*sbd.Message, error) {
	dir := filepath.Join(f.root, imei)
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return f.walk(dir)
}

func (f *Filesystem) walk(dir string) ([]*sbd.Message, error) {
	var messages []*sbd.Message
	var decodeErrs []error
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sbd") {
			return nil
		}
		message, err := sbd.FromPath(path)
		if err != nil {
			decodeErrs = append(decodeErrs, fmt.Errorf("%s: %w", path, err))
			return nil
		}
		messages = append(messages, message)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk storage: %w", err)
	}
	sbd.SortByTimeOfSession(messages)
	return messages, errors.Join(decodeErrs...)
}
