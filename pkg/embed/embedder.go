// Package embed wraps an opaque face-embedding inference model. The model
// runtime is not reentrant, so all calls are funneled through a serial queue.
package embed

import (
	"fmt"
	"sync"

	"github.com/glothriel/castlink/pkg/serial"
	"github.com/sirupsen/logrus"
)

// Model is an opaque inference runtime producing an embedding vector from a
// preprocessed face image.
type Model interface {
	Predict(face []float32) ([]float32, error)
}

// ModelLoader loads the model on first use. Loading is expensive, so it is
// deferred until the first embedding request.
type ModelLoader func() (Model, error)

// Embedder computes face embeddings
type Embedder interface {
	Embed(face []float32) ([]float32, error)
	EmbedAll(faces [][]float32) ([][]float32, error)
}

type serializedEmbedder struct {
	loader ModelLoader
	queue  *serial.Queue

	loadOnce sync.Once
	model    Model
	loadErr  error
}

func (e *serializedEmbedder) getModel() (Model, error) {
	e.loadOnce.Do(func() {
		e.model, e.loadErr = e.loader()
		if e.loadErr == nil {
			logrus.Info("Loaded face embedding model")
		}
	})
	if e.loadErr != nil {
		return nil, fmt.Errorf("failed to load embedding model: %w", e.loadErr)
	}
	return e.model, nil
}

// Embed computes a single embedding. Calls queue in arrival order and execute
// one at a time, the model never sees concurrent requests.
func (e *serializedEmbedder) Embed(face []float32) ([]float32, error) {
	var embedding []float32
	doErr := e.queue.Do(func() error {
		model, modelErr := e.getModel()
		if modelErr != nil {
			return modelErr
		}
		var predictErr error
		embedding, predictErr = model.Predict(face)
		return predictErr
	})
	return embedding, doErr
}

// EmbedAll computes embeddings for a batch of faces. The batch is fanned out
// through the same serial queue, so items still execute sequentially.
func (e *serializedEmbedder) EmbedAll(faces [][]float32) ([][]float32, error) {
	embeddings := make([][]float32, len(faces))
	for i, face := range faces {
		embedding, embedErr := e.Embed(face)
		if embedErr != nil {
			return nil, embedErr
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// NewSerializedEmbedder creates an Embedder that lazy-loads the model and
// serializes access to it
func NewSerializedEmbedder(loader ModelLoader) Embedder {
	return &serializedEmbedder{
		loader: loader,
		queue:  serial.NewQueue(),
	}
}
