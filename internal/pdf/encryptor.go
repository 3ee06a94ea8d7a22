package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/nroyer/docseal/internal/protect"
)

// Encryptor writes protected renditions with pdfcpu's default cipher
// (AES-256). The owner password gates modification; the user password
// stays empty so outputs open without a prompt.
type Encryptor struct{}

// Encrypt stamps fields into the document info dictionary (when any were
// parsed), then encrypts into destPath. The source file is never
// modified; stamping goes through a sibling temp file.
func (Encryptor) Encrypt(srcPath, destPath, ownerPassword string, perms protect.Permissions, fields map[string]string) error {
	src := srcPath
	if len(fields) > 0 {
		staged, err := stampProperties(srcPath, destPath, fields)
		if err != nil {
			return err
		}
		defer os.Remove(staged)
		src = staged
	}

	conf := model.NewDefaultConfiguration()
	conf.OwnerPW = ownerPassword
	conf.UserPW = ""
	conf.Permissions = flags(perms)

	if err := api.EncryptFile(src, destPath, conf); err != nil {
		return fmt.Errorf("failed to encrypt: %w", err)
	}
	return nil
}

// stampProperties writes a temp copy of src carrying the document info
// fields and returns its path. Callers remove it when done.
func stampProperties(srcPath, destPath string, fields map[string]string) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(destPath), ".props-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create properties temp file: %w", err)
	}
	staged := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(staged)
		return "", err
	}

	if err := api.AddPropertiesFile(srcPath, staged, fields, nil); err != nil {
		os.Remove(staged)
		return "", fmt.Errorf("failed to stamp document properties: %w", err)
	}
	return staged, nil
}
