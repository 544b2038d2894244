package pull

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/biomage-org/biomage-utils/pkg/document"
	"github.com/biomage-org/biomage-utils/pkg/errors"
	"github.com/biomage-org/biomage-utils/pkg/remote"
	"github.com/biomage-org/biomage-utils/pkg/summary"
)

// Command is the name the pull is reported under.
const Command = "pull"

// emptyPlotsTables replaces the remote plots and tables config.
var emptyPlotsTables = document.Object{"records": []interface{}{}}

// Puller reconciles the local copy of an experiment with an origin
// environment.
type Puller struct {
	Objects remote.ObjectStore
	Records remote.RecordTable

	// Root is the local data root. Each experiment gets its own directory
	// within it.
	Root string

	// Out receives the progress messages meant for the operator.
	Out io.Writer
}

// Pull brings the local copy of `experimentID` up to date with `origin`, and
// returns the artifacts that were changed.
func (p Puller) Pull(ctx context.Context, origin, experimentID string) (*summary.Summary, error) {
	changes := summary.New(Command, map[string]string{
		"origin":        origin,
		"experiment_id": experimentID,
	})
	logger := log.WithFields(log.Fields{
		"run":        changes.RunID,
		"origin":     origin,
		"experiment": experimentID,
	})

	for _, artifact := range objectArtifacts(p.Root, origin, experimentID) {
		changed, err := p.downloadIfModified(ctx, logger, artifact)
		if err != nil {
			return nil, errors.WithContext(err, fmt.Sprintf("download %s/%s", artifact.bucket, artifact.key))
		}
		if changed {
			changes.Add(artifact.path)
		}
	}

	for _, record := range configRecords {
		path := filepath.Join(experimentDir(p.Root, experimentID), record.file)
		changed, err := p.updateConfigIfNeeded(ctx, logger, record, path, origin, experimentID)
		if err != nil {
			return nil, errors.WithContext(err, fmt.Sprintf("update config %q", record.file))
		}
		if changed {
			changes.Add(path)
		}
	}

	path := filepath.Join(experimentDir(p.Root, experimentID), PlotsTablesFile)
	changed, err := writePlaceholder(path)
	if err != nil {
		return nil, errors.WithContext(err, "write plots and tables placeholder")
	}
	if changed {
		changes.Add(path)
	}

	return changes, nil
}

func (p Puller) downloadIfModified(ctx context.Context, logger *log.Entry,
	artifact objectArtifact) (bool, error) {

	logger = logger.WithFields(log.Fields{
		"bucket": artifact.bucket,
		"key":    artifact.key,
		"path":   artifact.path,
	})

	info, err := p.Objects.Stat(ctx, artifact.bucket, artifact.key)
	if err != nil {
		return false, errors.WithContext(err, "stat remote object")
	}

	modified, err := IsModified(info, artifact.path)
	if err != nil {
		return false, err
	}
	if !modified {
		logger.Debug("Local copy is up to date")
		return false, nil
	}

	fmt.Fprintf(p.Out, "Local file for key %s last modified date differs from the remote version.\n"+
		" Updating local copy\n", artifact.key)

	contents, info, err := p.Objects.Get(ctx, artifact.bucket, artifact.key)
	if err != nil {
		return false, errors.WithContext(err, "get remote object")
	}

	materialized, err := materialize(artifact.kind, contents)
	if err != nil {
		return false, errors.WithContext(err, fmt.Sprintf("materialize %s", artifact.kind))
	}

	if err := writeFile(artifact.path, materialized); err != nil {
		return false, errors.WithContext(err, "write local copy")
	}

	if err := setModTime(artifact.path, info.LastModified); err != nil {
		return false, errors.WithContext(err, "set modification time")
	}

	logger.WithField("size", len(materialized)).Debug("Downloaded object")
	return true, nil
}

func (p Puller) updateConfigIfNeeded(ctx context.Context, logger *log.Entry, record configRecord,
	path, origin, experimentID string) (bool, error) {

	table := tableName(record.table, origin)
	logger = logger.WithFields(log.Fields{
		"table": table,
		"path":  path,
	})

	local, err := document.Load(fs, path)
	if err != nil {
		return false, errors.WithContext(err, "load local config")
	}

	remoteCfg, err := p.Records.GetItem(ctx, table, map[string]string{"experimentId": experimentID})
	if err != nil {
		return false, errors.WithContext(err, "get item")
	}

	if record.stripKey != "" {
		remoteCfg = document.RemoveKey(remoteCfg, record.stripKey)
	}

	localCfg, found := local.Document()
	if found && document.Equal(localCfg, remoteCfg) {
		logger.Debug("Local config is up to date")
		return false, nil
	}

	if err := document.Save(fs, remoteCfg, path); err != nil {
		return false, errors.WithContext(err, "save local config")
	}

	logger.WithField("found", found).Debug("Updated local config")
	return true, nil
}

// writePlaceholder always writes the placeholder, but only reports it as
// changed if the local file was missing or different.
func writePlaceholder(path string) (bool, error) {
	local, err := document.Load(fs, path)
	if err != nil {
		// An unparsable local file is replaced like any stale one.
		log.WithError(err).WithField("path", path).Debug("Failed to read placeholder")
		local = document.NotFound()
	}

	if err := document.Save(fs, emptyPlotsTables, path); err != nil {
		return false, err
	}

	localCfg, found := local.Document()
	return !found || !document.Equal(localCfg, emptyPlotsTables), nil
}
