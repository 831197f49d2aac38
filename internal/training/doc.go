// Package training fits the random forest on the combined dataset.
//
// The dataset is split by position: the first rows train the model and the
// trailing rows, which are the most recent ones in a time-sorted dataset,
// evaluate it. Nothing is shuffled.
package training
