// Package storage provides JSON persistence for the concert dataset.
//
// The dataset is a single pretty-printed JSON document. It is read once at the
// start of a run and, when concerts were added, rewritten in full through a
// temporary file that is renamed over the original so readers never see a
// partial write.
package storage
