// Package upload copies the locally produced files of an experiment into
// the buckets of an environment.
//
// Which samples belong to the experiment is resolved through the
// environment's relational database. Raw datasets are keyed by sample ID,
// while the local files are named after the sample.
package upload
