package graph

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// GraphML export for inspection in tools like Gephi or yEd. Node attributes
// are name, entity_type, aliases and a JSON attributes blob, edges carry
// their relation type.

type graphmlDoc struct {
	XMLName xml.Name     `xml:"graphml"`
	Xmlns   string       `xml:"xmlns,attr"`
	Keys    []graphmlKey `xml:"key"`
	Graph   graphmlGraph `xml:"graph"`
}

type graphmlKey struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
	AttrType string `xml:"attr.type,attr"`
}

type graphmlGraph struct {
	ID          string        `xml:"id,attr"`
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphmlNode `xml:"node"`
	Edges       []graphmlEdge `xml:"edge"`
}

type graphmlNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphmlData `xml:"data"`
}

type graphmlEdge struct {
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphmlData `xml:"data"`
}

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// WriteGraphML writes the graph as a GraphML document. Nodes are emitted in
// key order so identical graphs produce identical documents.
func WriteGraphML(w io.Writer, g *Graph) error {
	doc := graphmlDoc{
		Xmlns: "http://graphml.graphdrawing.org/xmlns",
		Keys: []graphmlKey{
			{ID: "name", For: "node", AttrName: "name", AttrType: "string"},
			{ID: "entity_type", For: "node", AttrName: "entity_type", AttrType: "string"},
			{ID: "aliases", For: "node", AttrName: "aliases", AttrType: "string"},
			{ID: "attributes", For: "node", AttrName: "attributes", AttrType: "string"},
			{ID: "relation", For: "edge", AttrName: "relation", AttrType: "string"},
			{ID: "edge_attributes", For: "edge", AttrName: "edge_attributes", AttrType: "string"},
		},
		Graph: graphmlGraph{
			ID:          "civicgraph",
			EdgeDefault: "directed",
		},
	}

	for _, node := range g.SortedNodes() {
		data := []graphmlData{
			{Key: "name", Value: node.Name},
			{Key: "entity_type", Value: string(node.Type)},
		}
		if len(node.Aliases) > 0 {
			data = append(data, graphmlData{Key: "aliases", Value: strings.Join(node.Aliases, "; ")})
		}
		if len(node.Metadata) > 0 {
			blob, err := json.Marshal(node.Metadata)
			if err != nil {
				return fmt.Errorf("failed to encode node attributes for %v: %w", node.Key, err)
			}
			data = append(data, graphmlData{Key: "attributes", Value: string(blob)})
		}
		doc.Graph.Nodes = append(doc.Graph.Nodes, graphmlNode{ID: node.Key, Data: data})
	}

	for _, edge := range g.Edges {
		data := []graphmlData{
			{Key: "relation", Value: string(edge.Relation)},
		}
		if len(edge.Metadata) > 0 {
			blob, err := json.Marshal(edge.Metadata)
			if err != nil {
				return fmt.Errorf("failed to encode edge attributes: %w", err)
			}
			data = append(data, graphmlData{Key: "edge_attributes", Value: string(blob)})
		}
		doc.Graph.Edges = append(doc.Graph.Edges, graphmlEdge{
			Source: edge.Source,
			Target: edge.Target,
			Data:   data,
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode graphml: %w", err)
	}
	if err := encoder.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")

	return err
}

// ExportGraphML writes the graph as a GraphML file
func ExportGraphML(path string, g *Graph) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create graphml file: %w", err)
	}
	defer file.Close()

	return WriteGraphML(file, g)
}
