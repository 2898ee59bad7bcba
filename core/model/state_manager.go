package model

import (
	"sync"

	"github.com/YuminosukeSato/statlearn/pkg/errors"
)

// StateManager records whether an estimator is fitted and the training
// shape. Safe for concurrent use.
type StateManager struct {
	mu        sync.RWMutex
	fitted    bool
	nFeatures int
	nSamples  int
}

// NewStateManager returns an unfitted StateManager.
func NewStateManager() *StateManager {
	return &StateManager{}
}

func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fitted
}

// SetFitted marks the estimator fitted on nSamples rows of nFeatures
// columns. nSamples is 0 for weights restored from disk.
func (s *StateManager) SetFitted(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted, s.nFeatures, s.nSamples = true, nFeatures, nSamples
}

func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted, s.nFeatures, s.nSamples = false, 0, 0
}

// Dimensions returns the training shape.
func (s *StateManager) Dimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nFeatures, s.nSamples
}

// RequireFitted returns a NotFittedError naming modelName and method.
func (s *StateManager) RequireFitted(modelName, method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}

// RequireFeatures returns a DimensionError when nFeatures differs from the
// training feature count.
func (s *StateManager) RequireFeatures(op string, nFeatures int) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if nFeatures != s.nFeatures {
		return errors.NewDimensionError(op, s.nFeatures, nFeatures, 1)
	}
	return nil
}
