/*
The pull package downloads a snapshot of a remote experiment into the local
data root, so that it can be served by a locally running API.

There are three kinds of local artifacts:
 1. The processed dataset (r.rds.gz) -- a binary object that is only
    downloaded when the copy in the object store has a different
    last-modified time from the local file.
 2. The cell sets (mock_cell_sets.json) -- a JSON object handled the same way.
 3. Config records (mock_experiment.json, mock_samples.json) -- items in the
    environment's document tables. They are always fetched, and the local
    copy is only rewritten if it differs from the remote item.

The plots and tables config is not pulled. Its remote records reference
resources that don't exist locally, so an empty placeholder is written
instead. The placeholder is rewritten on every pull, but it's only reported
as changed when the file was missing or held something else.

Pulls run sequentially. Any error aborts the pull, possibly leaving some
artifacts updated and others not.
*/
package pull
