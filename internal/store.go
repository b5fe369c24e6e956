package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const NodesFilename = "nodes.json"

// StoredNode is the persisted shape of a node, kept next to the vector
// index so search results can be resolved back to text.
type StoredNode struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
	SourceID string            `json:"source_id"`
}

// NodeStore is a flat JSON file of nodes keyed by ID.
type NodeStore struct {
	basePath string
	nodes    map[string]StoredNode
}

func NewNodeStore(basePath string) *NodeStore {
	return &NodeStore{
		basePath: basePath,
		nodes:    make(map[string]StoredNode),
	}
}

func (s *NodeStore) Put(nodes ...Node) {
	for _, node := range nodes {
		s.nodes[node.ID] = StoredNode{
			ID:       node.ID,
			Text:     node.Text,
			Metadata: node.Metadata,
			SourceID: node.SourceID,
		}
	}
}

func (s *NodeStore) Get(id string) (StoredNode, bool) {
	node, ok := s.nodes[id]
	return node, ok
}

func (s *NodeStore) Len() int {
	return len(s.nodes)
}

func (s *NodeStore) Save() error {
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	data, err := json.Marshal(s.nodes)
	if err != nil {
		return fmt.Errorf("marshal nodes: %w", err)
	}

	path := filepath.Join(s.basePath, NodesFilename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write nodes: %w", err)
	}
	return nil
}

func (s *NodeStore) Load() error {
	path := filepath.Join(s.basePath, NodesFilename)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read nodes: %w", err)
	}

	if err := json.Unmarshal(data, &s.nodes); err != nil {
		return fmt.Errorf("unmarshal nodes: %w", err)
	}
	return nil
}
