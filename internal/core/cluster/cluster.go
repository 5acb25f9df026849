// Package cluster links conflict groups that share records into clusters an
// operator can reconcile together.
package cluster

import (
	"fmt"
	"sort"

	"github.com/agenthands/concord/internal/core/model"
)

// Cluster is a connected set of records plus every conflict group touching it.
type Cluster struct {
	Entities    []model.EntityRef `json:"entities" yaml:"entities"`
	ConflictIDs []string          `json:"conflictIds" yaml:"conflictIds"`
	Severity    model.Severity    `json:"severity" yaml:"severity"`
}

type node struct {
	ref   model.EntityRef
	order int
}

// Components returns the connected components of the record graph in which
// every conflict group links its entities. Single-record components are
// dropped. Records carrying the unknown key are never merged across groups.
func Components(groups []model.ConflictGroup) []Cluster {
	nodes := make(map[string]*node)
	var keys []string
	adj := make(map[string][]string)
	groupsOf := make(map[string][]int)

	for gi, g := range groups {
		var members []string
		for ei, e := range g.Entities {
			key := e.ID
			if key == model.UnknownKey || key == "" {
				key = fmt.Sprintf("%s/%s#%d", model.UnknownKey, g.ID, ei)
			}
			if _, ok := nodes[key]; !ok {
				nodes[key] = &node{ref: e, order: len(keys)}
				keys = append(keys, key)
			}
			groupsOf[key] = append(groupsOf[key], gi)
			members = append(members, key)
		}
		for i := 1; i < len(members); i++ {
			adj[members[0]] = append(adj[members[0]], members[i])
			adj[members[i]] = append(adj[members[i]], members[0])
		}
	}

	visited := make(map[string]bool)
	var clusters []Cluster
	for _, k := range keys {
		if visited[k] {
			continue
		}
		var component []string
		dfs(k, adj, visited, &component)
		if len(component) < 2 {
			continue
		}
		sort.Slice(component, func(i, j int) bool {
			return nodes[component[i]].order < nodes[component[j]].order
		})
		clusters = append(clusters, build(component, nodes, groupsOf, groups))
	}
	return clusters
}

func dfs(u string, adj map[string][]string, visited map[string]bool, component *[]string) {
	visited[u] = true
	*component = append(*component, u)
	for _, v := range adj[u] {
		if !visited[v] {
			dfs(v, adj, visited, component)
		}
	}
}

func build(component []string, nodes map[string]*node, groupsOf map[string][]int, groups []model.ConflictGroup) Cluster {
	var c Cluster
	seen := make(map[int]bool)
	var indexes []int
	for _, k := range component {
		c.Entities = append(c.Entities, nodes[k].ref)
		for _, gi := range groupsOf[k] {
			if !seen[gi] {
				seen[gi] = true
				indexes = append(indexes, gi)
			}
		}
	}
	sort.Ints(indexes)
	for _, gi := range indexes {
		g := groups[gi]
		c.ConflictIDs = append(c.ConflictIDs, g.ID)
		if g.Severity.Rank() > c.Severity.Rank() {
			c.Severity = g.Severity
		}
	}
	return c
}
