// Package classifier implements the random forest used to predict the
// five-row price direction.
//
// Trees are CART classifiers grown on bootstrap samples with gini impurity,
// a random subset of sqrt(features) candidate features per split and
// thresholds at the midpoint between neighbouring values. The forest
// averages the leaf class distributions of its trees.
//
// Every tree draws its own seed from the forest seed before fitting starts,
// so a fixed seed gives the same forest whatever the worker count.
//
//	forest := classifier.NewRandomForest(classifier.Params{Trees: 100, MaxDepth: 10, Seed: 42})
//	if err := forest.Fit(ctx, X, y); err != nil {
//	    return err
//	}
//	predictions := forest.Predict(Xtest)
package classifier
