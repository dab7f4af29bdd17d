package ldraw

import (
	"path/filepath"

	"github.com/matzehuels/ldraw/pkg/ldraw/keyword"
	"github.com/matzehuels/ldraw/pkg/ldraw/seri"
)

// Model references geometry loaded from a model file.
type Model struct {
	Base[Model]
	path        string
	anim        seri.Animation
	noMaterials seri.Flag
}

// NewModel returns a detached model for use with Append.
func NewModel(name string, colour ...uint32) *Model {
	m := &Model{}
	m.init(m, name, colour)
	return m
}

// Keyword implements [Node].
func (m *Model) Keyword() keyword.Keyword { return keyword.Model }

// Summary implements [Node].
func (m *Model) Summary() string {
	if m.path == "" {
		return "no file"
	}
	return filepath.Base(m.path)
}

// FilePath sets the model file. The path is written as given.
func (m *Model) FilePath(path string) *Model {
	m.path = path
	return m
}

// Path returns the model file path.
func (m *Model) Path() string { return m.path }

// Animation returns the keyframe animation for in-place editing.
func (m *Model) Animation() *seri.Animation { return &m.anim }

// NoMaterials ignores materials embedded in the model file.
func (m *Model) NoMaterials() *Model {
	m.noMaterials = true
	return m
}

func (m *Model) write(w seri.Writer) {
	w.BeginNode(keyword.Model, m.name, m.colour)
	if m.path != "" {
		w.Begin(keyword.FilePath)
		w.String(m.path)
		w.End()
	}
	m.anim.Write(w, keyword.Animation)
	m.noMaterials.Write(w, keyword.NoMaterials)
	m.writeModifiers(w)
	w.End()
}
