package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrPreviewNotFound = errors.New("preview not found")

var previewExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var extMIME = map[string]string{
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".img":  "application/octet-stream",
}

// PreviewStore guarda imagens selecionadas no formulário até o envio.
// A referência devolvida por Stage é o nome do arquivo.
type PreviewStore struct {
	dir string
}

func NewPreviewStore(dir string) (*PreviewStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("preview dir: %w", err)
	}
	return &PreviewStore{dir: dir}, nil
}

func (p *PreviewStore) Stage(r io.Reader, mimeType string) (string, error) {
	ext, ok := previewExt[strings.ToLower(mimeType)]
	if !ok {
		ext = ".img"
	}
	ref := uuid.NewString() + ext

	f, err := os.Create(filepath.Join(p.dir, ref))
	if err != nil {
		return "", fmt.Errorf("create preview: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write preview: %w", err)
	}
	return ref, nil
}

// Open devolve o conteúdo e o content-type da prévia.
func (p *PreviewStore) Open(ref string) (io.ReadCloser, string, error) {
	path, ext, err := p.path(ref)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", ErrPreviewNotFound
		}
		return nil, "", err
	}
	return f, extMIME[ext], nil
}

// Release apaga a prévia. Referência vazia ou inexistente é ignorada.
func (p *PreviewStore) Release(ref string) {
	if ref == "" {
		return
	}
	path, _, err := p.path(ref)
	if err != nil {
		return
	}
	_ = os.Remove(path)
}

// Sweep apaga prévias mais velhas que maxAge e devolve quantas removeu.
// Arquivos que não são prévias ficam no diretório.
func (p *PreviewStore) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return 0, fmt.Errorf("read preview dir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		path, _, err := p.path(e.Name())
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("remove preview %s: %w", e.Name(), err)
		}
		removed++
	}
	return removed, nil
}

func (p *PreviewStore) path(ref string) (string, string, error) {
	ext := filepath.Ext(ref)
	if _, ok := extMIME[ext]; !ok {
		return "", "", ErrPreviewNotFound
	}
	if _, err := uuid.Parse(strings.TrimSuffix(ref, ext)); err != nil {
		return "", "", ErrPreviewNotFound
	}
	return filepath.Join(p.dir, ref), ext, nil
}
