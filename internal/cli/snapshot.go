package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/stridehq/stride/internal/models"
)

type SnapshotCmd struct {
	Export SnapshotExportCmd `cmd:"" help:"Export all challenges and entries to a JSON file."`
	Import SnapshotImportCmd `cmd:"" help:"Replace local state with a previously exported snapshot."`
}

type SnapshotExportCmd struct {
	Out string `arg:"" help:"Output file path."`
}

func (c *SnapshotExportCmd) Run(ctx *Context) error {
	snap, err := ctx.Store.ExportAll()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	if err := os.WriteFile(c.Out, data, 0600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	fmt.Printf("Exported %d challenges and %d entries to %s\n",
		len(snap.Challenges), len(snap.Entries), c.Out)
	return nil
}

type SnapshotImportCmd struct {
	In string `arg:"" help:"Snapshot file path."`
}

func (c *SnapshotImportCmd) Run(ctx *Context) error {
	data, err := os.ReadFile(c.In)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to parse snapshot: %w", err)
	}

	if err := ctx.Store.ImportAll(snap); err != nil {
		return err
	}
	ctx.Cache.Clear()

	fmt.Printf("Imported %d challenges and %d entries\n", len(snap.Challenges), len(snap.Entries))
	return nil
}
