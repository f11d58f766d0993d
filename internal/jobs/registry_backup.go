package jobs

import (
	"context"
	"fmt"

	"github.com/lpworks/lp-intake-backend/internal/gdrive"
	"github.com/lpworks/lp-intake-backend/internal/logging"
)

const RegistryBackupName = "project_numbers.json"

// Exporter serializes the project number registry.
type Exporter interface {
	Export() ([]byte, error)
}

// RegistryBackup uploads the registry document to a Drive folder. Every run
// adds a new file; Drive writes are append-only.
type RegistryBackup struct {
	Registry Exporter
	Drive    gdrive.Store
	FolderID string
}

// Run returns the id of the uploaded file.
func (b *RegistryBackup) Run(ctx context.Context) (string, error) {
	data, err := b.Registry.Export()
	if err != nil {
		return "", fmt.Errorf("failed to export registry: %w", err)
	}

	folderID := b.FolderID
	if folderID == "" {
		folderID = "root"
	}
	id, err := b.Drive.WriteArtifact(ctx, folderID, RegistryBackupName, string(data))
	if err != nil {
		return "", fmt.Errorf("failed to upload registry backup: %w", err)
	}

	logging.FromContext(ctx).LogInfof("jobs.registry_backup", "uploaded %s (%d bytes) as %s", RegistryBackupName, len(data), id)
	return id, nil
}

// Job adapts Run to the scheduler.
func (b *RegistryBackup) Job() Job {
	return func(ctx context.Context) error {
		_, err := b.Run(ctx)
		return err
	}
}
