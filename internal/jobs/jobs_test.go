package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lpworks/lp-intake-backend/internal/clock"
	"github.com/lpworks/lp-intake-backend/internal/gdrive/drivetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticExporter struct {
	data []byte
	err  error
}

func (e staticExporter) Export() ([]byte, error) { return e.data, e.err }

func TestRegistryBackup_Run(t *testing.T) {
	clk := clock.Fake(time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC))
	drive := drivetest.New(clk)
	folder := drive.AddFolder("LP Projects", clk.Now())
	backup := &RegistryBackup{
		Registry: staticExporter{data: []byte(`{"records":[]}`)},
		Drive:    drive,
		FolderID: folder,
	}

	id, err := backup.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"records":[]}`, drive.Content(id))

	files := drive.Files(folder)
	require.Len(t, files, 1)
	assert.Equal(t, RegistryBackupName, files[0].Name)
}

func TestRegistryBackup_Failures(t *testing.T) {
	drive := drivetest.New(nil)

	_, err := (&RegistryBackup{Registry: staticExporter{err: errors.New("boom")}, Drive: drive}).Run(context.Background())
	assert.ErrorContains(t, err, "export registry")

	drive.SetFailure(errors.New("drive down"))
	err = (&RegistryBackup{Registry: staticExporter{data: []byte("{}")}, Drive: drive}).Job()(context.Background())
	assert.ErrorContains(t, err, "upload registry backup")
}

func TestScheduler_RunsJob(t *testing.T) {
	s := NewScheduler(time.Second)
	ran := make(chan struct{}, 1)
	require.NoError(t, s.Add("tick", "* * * * * *", func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}))

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestScheduler_BadSpec(t *testing.T) {
	s := NewScheduler(0)
	assert.Error(t, s.Add("bad", "not a spec", func(context.Context) error { return nil }))
}
