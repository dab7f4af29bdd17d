package ldraw

import (
	"crypto/rand"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/ldraw/pkg/errors"
)

type saveConfig struct {
	rand   io.Reader
	logger *log.Logger
	perm   os.FileMode
}

// SaveOption configures [Builder.Save].
type SaveOption func(*saveConfig)

// WithRand sets the entropy source for temporary file names. The default is
// crypto/rand.
func WithRand(r io.Reader) SaveOption {
	return func(c *saveConfig) { c.rand = r }
}

// WithLogger sets the logger that receives errors suppressed by NoThrow.
// The default is log.Default().
func WithLogger(l *log.Logger) SaveOption {
	return func(c *saveConfig) { c.logger = l }
}

// WithPerm sets the permissions of a newly created file. The default is
// 0o644.
func WithPerm(perm os.FileMode) SaveOption {
	return func(c *saveConfig) { c.perm = perm }
}

// ResolvePath adds the conventional extension, .ldr or .bdr, when path
// has none.
func ResolvePath(path string, flags Flags) string {
	if filepath.Ext(path) != "" {
		return path
	}
	return path + "." + flags.Encoding().String()
}

// Save writes the scene to path.
//
// The file is replaced atomically: content goes to a temporary file in the
// same directory, which is synced and then renamed over path. With Append
// the new content follows the existing file content.
//
// With NoThrow a failure is logged and Save returns nil, except for
// out-of-range errors from the binary framing.
func (b *Builder) Save(path string, flags Flags, opts ...SaveOption) error {
	cfg := saveConfig{rand: rand.Reader, perm: 0o644}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.Default()
	}

	return settle(b.save(path, flags, &cfg), path, flags, cfg.logger)
}

// settle applies NoThrow to the outcome of a save: non-fatal errors are
// logged and dropped, fatal ones always returned.
func settle(err error, path string, flags Flags, logger *log.Logger) error {
	if err == nil {
		return nil
	}
	if flags.Has(NoThrow) && !errors.Fatal(err) {
		logger.Error("save failed", "path", path, "flags", flags, "err", err)
		return nil
	}
	return err
}

func (b *Builder) save(path string, flags Flags, cfg *saveConfig) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	path = ResolvePath(path, flags)

	data, err := b.Bytes(flags)
	if err != nil {
		return err
	}
	if flags.Has(Append) {
		prev, err := os.ReadFile(path)
		switch {
		case err == nil:
			if !flags.Has(Binary) && len(prev) != 0 && prev[len(prev)-1] != '\n' {
				prev = append(prev, '\n')
			}
			data = append(prev, data...)
		case !os.IsNotExist(err):
			return errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
		}
	}
	return writeAtomic(path, data, cfg)
}

func writeAtomic(path string, data []byte, cfg *saveConfig) error {
	id, err := uuid.NewRandomFromReader(cfg.rand)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "generate temporary name")
	}
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+id.String()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, cfg.perm)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create temporary file in %s", dir)
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmp)
		}
	}()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", tmp)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "sync %s", tmp)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "rename to %s", path)
	}
	committed = true
	return nil
}
