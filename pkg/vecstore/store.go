// Package vecstore holds scouting notes in an embedded vector index so runs
// can pull semantically relevant notes into head-to-head evidence.
package vecstore

import (
	"encoding/gob"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Note is one scouting note with its embedding vector.
type Note struct {
	ID        string
	Text      string
	Teams     []string // abbreviations the note concerns
	Embedding []float32
	UpdatedAt time.Time
}

// Result is a search hit with its similarity score.
type Result struct {
	Note
	Score float32
}

// NoteStore is an in-memory vector index with gob persistence.
type NoteStore struct {
	path  string
	notes []Note
	mu    sync.RWMutex
}

// NewNoteStore creates a store that persists to the given path.
func NewNoteStore(path string) *NoteStore {
	return &NoteStore{path: path}
}

// Load reads the store from disk. A missing or corrupt file starts empty.
func (s *NoteStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.notes = nil
			return nil
		}
		return err
	}
	defer f.Close()

	var notes []Note
	if err := gob.NewDecoder(f).Decode(&notes); err != nil {
		s.notes = nil
		return nil
	}
	s.notes = notes
	return nil
}

// Save writes the store to disk.
func (s *NoteStore) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gob.NewEncoder(f).Encode(s.notes)
}

// Upsert adds or replaces notes by ID.
func (s *NoteStore) Upsert(notes ...Note) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := make(map[string]int, len(s.notes))
	for i, n := range s.notes {
		idx[n.ID] = i
	}
	for _, n := range notes {
		if i, ok := idx[n.ID]; ok {
			s.notes[i] = n
		} else {
			s.notes = append(s.notes, n)
		}
	}
}

// Search returns the topK notes most similar to the query embedding, dropping
// hits below minScore.
func (s *NoteStore) Search(query []float32, topK int, minScore float32) []Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.notes) == 0 || topK <= 0 {
		return nil
	}

	results := make([]Result, 0, len(s.notes))
	for _, n := range s.notes {
		if len(n.Embedding) == 0 {
			continue
		}
		score := cosine(query, n.Embedding)
		if score < minScore {
			continue
		}
		results = append(results, Result{Note: n, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK]
}

// Len returns the number of notes in the store.
func (s *NoteStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// cosine computes cosine similarity between two vectors.
func cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return float32(dot / denom)
}
