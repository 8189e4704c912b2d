package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/abstract-base-method/belgraph"
	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"sort"
	"strings"
)

const (
	nodesKey    = "nodes"
	nodesSeqKey = "nodes:seq"
	edgePrefix  = "edge:"
)

func NewRedisGraph(options *redis.Options) (belgraph.Graph, error) {
	return SingleDependencyGraph{
		ctx:   context.Background(),
		redis: redis.NewClient(options),
	}, nil
}

// NewRedisGraphFromURL connects using a redis:// connection string and checks
// that the server answers.
func NewRedisGraphFromURL(url string, db int) (belgraph.Graph, error) {
	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis connection %q: %w", url, err)
	}
	if db != 0 {
		options.DB = db
	}

	graph := SingleDependencyGraph{
		ctx:   context.Background(),
		redis: redis.NewClient(options),
	}
	if err := graph.redis.Ping(graph.ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis at %s unreachable: %w", options.Addr, err)
	}
	return graph, nil
}

// SingleDependencyGraph stores a BEL graph in one redis database:
//
//	node:<ref>        JSON node
//	nodes             sorted set of refs scored by insertion order
//	childrenOf:<ref>  hash of edge:<key> -> JSON out-edge
//	parentOf:<ref>    set of refs with an edge into ref
type SingleDependencyGraph struct {
	redis *redis.Client
	ctx   context.Context
}

func (r SingleDependencyGraph) StoreNode(node belgraph.Node) (identifier string, result bool, err error) {
	node, err = node.Normalize()
	if err != nil {
		return "", false, err
	}
	key := nodeIdToNodeKey(node.Ref)
	count, err := r.redis.Exists(r.ctx, key).Result()
	if err != nil {
		return "", false, err
	}

	result = count == 1

	data, err := json.Marshal(node)
	if err != nil {
		return "", false, err
	}

	if result {
		log.Debugf("updating node %s", key)
	} else {
		log.Debugf("creating node %s", key)
	}

	if err = r.redis.Set(r.ctx, key, data, 0).Err(); err != nil {
		return "", false, err
	}

	if !result {
		seq, err := r.redis.Incr(r.ctx, nodesSeqKey).Result()
		if err != nil {
			return string(node.Ref), result, err
		}
		err = r.redis.ZAddNX(r.ctx, nodesKey, redis.Z{Score: float64(seq), Member: string(node.Ref)}).Err()
		if err != nil {
			return string(node.Ref), result, err
		}
	}

	return string(node.Ref), result, nil
}

func (r SingleDependencyGraph) StoreEdge(edge belgraph.Edge) (identifier string, result bool, err error) {
	edge.Source = nodeKeyToNodeId(edge.Source)
	edge.Target = nodeKeyToNodeId(edge.Target)

	count, err := r.redis.Exists(r.ctx, nodeIdToNodeKey(edge.Source), nodeIdToNodeKey(edge.Target)).Result()
	if err != nil {
		return "", false, err
	}
	if count != 2 {
		return "", false, fmt.Errorf("%w: edge %s -> %s", belgraph.ErrNodeNotFound, edge.Source, edge.Target)
	}

	parentKey := nodeIdToParentRelationKey(edge.Source)
	childKey := nodeIdToChildRelationKey(edge.Target)
	field := edgePrefix + edge.Key()

	result, err = r.redis.HExists(r.ctx, parentKey, field).Result()
	if err != nil {
		return "", false, err
	}

	data, err := json.Marshal(edge)
	if err != nil {
		return "", false, err
	}

	_, err = r.redis.TxPipelined(r.ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(r.ctx, parentKey, field, data)
		pipe.SAdd(r.ctx, childKey, string(edge.Source))
		return nil
	})
	if err != nil {
		return "", false, err
	}

	if result {
		log.Debugf("updating relation %s %s", parentKey, field)
	} else {
		log.Debugf("created relation %s %s", parentKey, field)
	}

	return edge.Key(), result, nil
}

func (r SingleDependencyGraph) RetrieveNode(ref belgraph.NodeRef) (node *belgraph.Node, err error) {
	key := nodeIdToNodeKey(ref)

	raw, err := r.redis.Get(r.ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", belgraph.ErrNodeNotFound, nodeKeyToNodeId(belgraph.NodeRef(key)))
	}
	if err != nil {
		return nil, err
	}

	node = &belgraph.Node{}
	if err = json.Unmarshal([]byte(raw), node); err != nil {
		return nil, err
	}
	return node, nil
}

func (r SingleDependencyGraph) DeleteNode(ref belgraph.NodeRef) (err error) {
	nodeId := nodeKeyToNodeId(ref)
	relations, err := r.RelatedEdges(nodeId)
	if err != nil {
		return err
	}
	for _, relation := range relations {
		if relation.Source == nodeId {
			err = r.DeleteEdge(nodeId, relation.Target)
		} else {
			err = r.DeleteEdge(relation.Source, nodeId)
		}
		if err != nil {
			return err
		}
	}

	err = r.redis.Del(r.ctx,
		nodeIdToNodeKey(nodeId),
		nodeIdToParentRelationKey(nodeId),
		nodeIdToChildRelationKey(nodeId),
	).Err()
	if err != nil {
		return err
	}

	return r.redis.ZRem(r.ctx, nodesKey, string(nodeId)).Err()
}

// DeleteEdge removes every edge from host to target.
func (r SingleDependencyGraph) DeleteEdge(host belgraph.NodeRef, target belgraph.NodeRef) (err error) {
	parentRelationKey := nodeIdToParentRelationKey(host)
	childRelationKey := nodeIdToChildRelationKey(target)
	parentKeysToDelete := make([]string, 0)

	data, err := r.redis.HGetAll(r.ctx, parentRelationKey).Result()
	if err != nil {
		return err
	}
	for field, raw := range data {
		var edge belgraph.Edge
		if err := json.Unmarshal([]byte(raw), &edge); err != nil {
			log.Error("skipping undecodable relation", "key", parentRelationKey, "field", field, "error", err)
			continue
		}
		if edge.Target == nodeKeyToNodeId(target) {
			parentKeysToDelete = append(parentKeysToDelete, field)
		}
	}
	if len(parentKeysToDelete) > 0 {
		if err = r.redis.HDel(r.ctx, parentRelationKey, parentKeysToDelete...).Err(); err != nil {
			return err
		}
	}

	return r.redis.SRem(r.ctx, childRelationKey, string(nodeKeyToNodeId(host))).Err()
}

func (r SingleDependencyGraph) Nodes() ([]belgraph.Node, error) {
	refs, err := r.redis.ZRange(r.ctx, nodesKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return []belgraph.Node{}, nil
	}

	keys := make([]string, len(refs))
	for i, ref := range refs {
		keys[i] = nodeIdToNodeKey(belgraph.NodeRef(ref))
	}
	values, err := r.redis.MGet(r.ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	nodes := make([]belgraph.Node, 0, len(values))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			log.Error("node listed but not stored", "key", keys[i])
			continue
		}
		var node belgraph.Node
		if err := json.Unmarshal([]byte(raw), &node); err != nil {
			return nil, fmt.Errorf("decode %s: %w", keys[i], err)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (r SingleDependencyGraph) InEdges(ref belgraph.NodeRef) ([]belgraph.Edge, error) {
	nodeId := nodeKeyToNodeId(ref)
	if err := r.mustExist(nodeId); err != nil {
		return nil, err
	}

	ids, err := r.redis.SMembers(r.ctx, nodeIdToChildRelationKey(nodeId)).Result()
	if err != nil {
		log.Error("failed to retrieve parents", "error", err)
		return nil, err
	}
	sort.Strings(ids)

	edges := make([]belgraph.Edge, 0)
	for _, parentId := range ids {
		relationData, err := r.redis.HGetAll(r.ctx, nodeIdToParentRelationKey(belgraph.NodeRef(parentId))).Result()
		if err != nil {
			log.Error("failed to retrieve parent relation key", "error", err, "key", nodeIdToParentRelationKey(belgraph.NodeRef(parentId)))
			return nil, err
		}
		for _, edge := range decodeEdges(relationData) {
			if edge.Target == nodeId {
				edges = append(edges, edge)
			}
		}
	}
	return edges, nil
}

func (r SingleDependencyGraph) OutEdges(ref belgraph.NodeRef) ([]belgraph.Edge, error) {
	nodeId := nodeKeyToNodeId(ref)
	if err := r.mustExist(nodeId); err != nil {
		return nil, err
	}

	relationData, err := r.redis.HGetAll(r.ctx, nodeIdToParentRelationKey(nodeId)).Result()
	if err != nil {
		return nil, err
	}
	return decodeEdges(relationData), nil
}

func (r SingleDependencyGraph) RelatedEdges(ref belgraph.NodeRef) ([]belgraph.Edge, error) {
	out, err := r.OutEdges(ref)
	if err != nil {
		return nil, err
	}
	in, err := r.InEdges(ref)
	if err != nil {
		return nil, err
	}
	return append(out, in...), nil
}

func (r SingleDependencyGraph) mustExist(ref belgraph.NodeRef) error {
	count, err := r.redis.Exists(r.ctx, nodeIdToNodeKey(ref)).Result()
	if err != nil {
		return err
	}
	if count != 1 {
		return fmt.Errorf("%w: %s", belgraph.ErrNodeNotFound, ref)
	}
	return nil
}

// decodeEdges orders edges by field so reads are deterministic.
func decodeEdges(relationData map[string]string) []belgraph.Edge {
	fields := make([]string, 0, len(relationData))
	for field := range relationData {
		if strings.HasPrefix(field, edgePrefix) {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)

	edges := make([]belgraph.Edge, 0, len(fields))
	for _, field := range fields {
		var edge belgraph.Edge
		if err := json.Unmarshal([]byte(relationData[field]), &edge); err != nil {
			log.Error("skipping undecodable relation", "field", field, "error", err)
			continue
		}
		edges = append(edges, edge)
	}
	return edges
}

func nodeIdToNodeKey(id belgraph.NodeRef) (key string) {
	if strings.HasPrefix(string(id), "node:") {
		key = string(id)
	} else {
		key = fmt.Sprintf("node:%s", id)
	}
	return key
}

func nodeKeyToNodeId(key belgraph.NodeRef) (id belgraph.NodeRef) {
	return belgraph.NodeRef(strings.TrimPrefix(string(key), "node:"))
}

func nodeIdToParentRelationKey(id belgraph.NodeRef) (key string) {
	if strings.HasPrefix(string(id), "childrenOf:") {
		key = string(id)
	} else {
		key = fmt.Sprintf("childrenOf:%s", nodeKeyToNodeId(id))
	}
	return key
}

func nodeIdToChildRelationKey(id belgraph.NodeRef) (key string) {
	if strings.HasPrefix(string(id), "parentOf:") {
		key = string(id)
	} else {
		key = fmt.Sprintf("parentOf:%s", nodeKeyToNodeId(id))
	}
	return key
}
