// Package webui provides the JSON API server for browsing heap snapshots.
package webui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/heap-browser/internal/browser"
	"github.com/heap-browser/internal/heap"
	"github.com/heap-browser/pkg/config"
	apperrors "github.com/heap-browser/pkg/errors"
	"github.com/heap-browser/pkg/parallel"
	"github.com/heap-browser/pkg/utils"
)

const tracerName = "heap-browser/webui"

// BrowseService manages snapshot loading, caching, and object queries. It is
// the high-level API the HTTP handlers and the CLI talk to.
type BrowseService struct {
	dataDir string
	cfg     config.BrowserConfig
	logger  utils.Logger
	lang    heap.Language // nil when snapshots carry no guest language

	mu           sync.RWMutex
	cache        map[string]*snapshotEntry
	maxCacheSize int
}

// snapshotEntry holds one loaded snapshot with its providers and summary.
type snapshotEntry struct {
	heap       *heap.MemHeap
	factory    *browser.Factory
	fields     *browser.FieldsProvider
	references *browser.ReferencesProvider
	items      *browser.ArrayItemsProvider
	summary    *SnapshotSummary
}

// SnapshotInfo describes one snapshot file in the data directory.
type SnapshotInfo struct {
	Name       string `json:"name"`
	ModifiedAt string `json:"modified_at"`
	Loaded     bool   `json:"loaded"`
}

// SnapshotSummary holds per-snapshot aggregates precomputed at load time.
type SnapshotSummary struct {
	InstanceCount int         `json:"instance_count"`
	ClassCount    int         `json:"class_count"`
	TotalSize     int64       `json:"total_size"`
	TopClasses    []ClassStat `json:"top_classes"`
}

// ClassStat aggregates the instances of one class.
type ClassStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Size  int64  `json:"size"`
}

// NewBrowseService creates a browse service over a directory of snapshot
// files. maxSnapshots bounds how many stay loaded at once.
func NewBrowseService(dataDir string, cfg config.BrowserConfig, maxSnapshots int, logger utils.Logger, lang heap.Language) *BrowseService {
	if maxSnapshots <= 0 {
		maxSnapshots = 3
	}
	if logger == nil {
		logger = &utils.NullLogger{}
	}
	return &BrowseService{
		dataDir:      dataDir,
		cfg:          cfg,
		logger:       logger,
		lang:         lang,
		cache:        make(map[string]*snapshotEntry),
		maxCacheSize: maxSnapshots,
	}
}

// ListSnapshots lists the snapshot files in the data directory, newest first.
func (s *BrowseService) ListSnapshots() ([]SnapshotInfo, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSnapshotError, "failed to list snapshots", err)
	}

	s.mu.RLock()
	loaded := make(map[string]bool, len(s.cache))
	for name := range s.cache {
		loaded[name] = true
	}
	s.mu.RUnlock()

	var snapshots []SnapshotInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")

		modified := ""
		if info, err := entry.Info(); err == nil {
			modified = info.ModTime().Format(time.RFC3339)
		}
		snapshots = append(snapshots, SnapshotInfo{
			Name:       name,
			ModifiedAt: modified,
			Loaded:     loaded[name],
		})
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].ModifiedAt > snapshots[j].ModifiedAt
	})
	return snapshots, nil
}

// Summary returns the precomputed aggregates of a snapshot, loading it if
// necessary.
func (s *BrowseService) Summary(ctx context.Context, snapshot string) (*SnapshotSummary, error) {
	entry, err := s.getOrLoad(ctx, snapshot)
	if err != nil {
		return nil, err
	}
	return entry.summary, nil
}

// ObjectInfo returns the node describing one object.
func (s *BrowseService) ObjectInfo(ctx context.Context, snapshot, objectID string) (*NodeJSON, error) {
	entry, inst, err := s.resolveObject(ctx, snapshot, objectID)
	if err != nil {
		return nil, err
	}
	node := entry.factory.RootInstanceNode(inst, heap.TypeNameOf(entry.heap, inst.ID), nil)
	j := toNodeJSON(&node.Node)
	return &j, nil
}

// ObjectFields returns the bounded field node array of one object.
func (s *BrowseService) ObjectFields(ctx context.Context, snapshot, objectID string, srt browser.Sort) ([]NodeJSON, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "browse.object_fields")
	defer span.End()
	span.SetAttributes(attribute.String("snapshot", snapshot), attribute.String("object_id", objectID))

	entry, inst, err := s.resolveObject(ctx, snapshot, objectID)
	if err != nil {
		return nil, err
	}
	nodes, err := entry.fields.Nodes(ctx, inst, browser.NewProgress(), srt)
	if err != nil {
		return nil, err
	}
	return toNodeJSONs(nodes), nil
}

// ObjectReferences returns the bounded inbound reference node array of one
// object.
func (s *BrowseService) ObjectReferences(ctx context.Context, snapshot, objectID string, srt browser.Sort) ([]NodeJSON, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "browse.object_references")
	defer span.End()
	span.SetAttributes(attribute.String("snapshot", snapshot), attribute.String("object_id", objectID))

	entry, inst, err := s.resolveObject(ctx, snapshot, objectID)
	if err != nil {
		return nil, err
	}
	nodes, err := entry.references.Nodes(ctx, inst, browser.NewProgress(), srt)
	if err != nil {
		return nil, err
	}
	return toNodeJSONs(nodes), nil
}

// ObjectItems returns the bounded element node array of an array object.
func (s *BrowseService) ObjectItems(ctx context.Context, snapshot, objectID string, srt browser.Sort) ([]NodeJSON, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "browse.object_items")
	defer span.End()
	span.SetAttributes(attribute.String("snapshot", snapshot), attribute.String("object_id", objectID))

	entry, inst, err := s.resolveObject(ctx, snapshot, objectID)
	if err != nil {
		return nil, err
	}
	nodes, err := entry.items.Nodes(ctx, inst, browser.NewProgress(), srt)
	if err != nil {
		return nil, err
	}
	return toNodeJSONs(nodes), nil
}

// Expand materializes the children of a container node emitted by one of
// the object queries. property selects "fields", "references" or "items".
func (s *BrowseService) Expand(ctx context.Context, snapshot, objectID, property string, start, end int, srt browser.Sort) ([]NodeJSON, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "browse.expand")
	defer span.End()
	span.SetAttributes(
		attribute.String("snapshot", snapshot),
		attribute.String("property", property),
		attribute.Int("start", start),
		attribute.Int("end", end),
	)

	entry, inst, err := s.resolveObject(ctx, snapshot, objectID)
	if err != nil {
		return nil, err
	}
	if start < 0 || end < start {
		return nil, apperrors.New(apperrors.CodeInvalidInput, fmt.Sprintf("invalid range %d-%d", start, end))
	}

	var nodes []*browser.Node
	switch property {
	case "fields":
		nodes, err = entry.fields.ExpandRange(ctx, inst, start, end, browser.NewProgress(), srt)
	case "references":
		nodes, err = entry.references.ExpandRange(ctx, inst, start, end, browser.NewProgress(), srt)
	case "items":
		nodes, err = entry.items.ExpandRange(ctx, inst, start, end, browser.NewProgress(), srt)
	default:
		return nil, apperrors.New(apperrors.CodeInvalidInput, "unknown property: "+property)
	}
	if err != nil {
		return nil, err
	}
	return toNodeJSONs(nodes), nil
}

// MergedFields returns the union-of-field-names view across all instances
// of one class.
func (s *BrowseService) MergedFields(ctx context.Context, snapshot, className string, srt browser.Sort) ([]NodeJSON, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "browse.merged_fields")
	defer span.End()
	span.SetAttributes(attribute.String("snapshot", snapshot), attribute.String("class", className))

	entry, err := s.getOrLoad(ctx, snapshot)
	if err != nil {
		return nil, err
	}
	batch := s.instancesOfClass(entry.heap, className)
	if len(batch) == 0 {
		return nil, apperrors.New(apperrors.CodeNotFound, "class not found: "+className)
	}
	nodes, err := entry.fields.MergedNodes(ctx, batch, browser.NewProgress(), srt)
	if err != nil {
		return nil, err
	}
	return toNodeJSONs(nodes), nil
}

// MergedReferences returns the deduplicated referer view across all
// instances of one class. Exceeding the referer limit is reported as the
// single warning node, not an error.
func (s *BrowseService) MergedReferences(ctx context.Context, snapshot, className string, srt browser.Sort) ([]NodeJSON, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "browse.merged_references")
	defer span.End()
	span.SetAttributes(attribute.String("snapshot", snapshot), attribute.String("class", className))

	entry, err := s.getOrLoad(ctx, snapshot)
	if err != nil {
		return nil, err
	}
	batch := s.instancesOfClass(entry.heap, className)
	if len(batch) == 0 {
		return nil, apperrors.New(apperrors.CodeNotFound, "class not found: "+className)
	}
	nodes, err := entry.references.MergedNodes(ctx, batch, browser.NewProgress(), srt)
	if err != nil {
		return nil, err
	}
	return toNodeJSONs(nodes), nil
}

// HasSnapshot checks whether a snapshot file exists.
func (s *BrowseService) HasSnapshot(snapshot string) bool {
	_, err := os.Stat(s.snapshotPath(snapshot))
	return err == nil
}

// ClearCache drops all loaded snapshots.
func (s *BrowseService) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*snapshotEntry)
}

func (s *BrowseService) resolveObject(ctx context.Context, snapshot, objectID string) (*snapshotEntry, heap.Instance, error) {
	entry, err := s.getOrLoad(ctx, snapshot)
	if err != nil {
		return nil, heap.Instance{}, err
	}

	id, err := parseObjectID(objectID)
	if err != nil {
		return nil, heap.Instance{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid object ID", err)
	}
	inst, ok := entry.heap.InstanceByID(id)
	if !ok {
		return nil, heap.Instance{}, apperrors.New(apperrors.CodeNotFound, "object not found: "+objectID)
	}
	return entry, inst, nil
}

func (s *BrowseService) instancesOfClass(h *heap.MemHeap, className string) []heap.Instance {
	var batch []heap.Instance
	h.Instances(func(inst heap.Instance) bool {
		if cls, ok := h.ClassOf(inst.ID); ok && cls.Name == className {
			batch = append(batch, inst)
		}
		return true
	})
	return batch
}

// getOrLoad returns a cached snapshot or loads it from disk.
func (s *BrowseService) getOrLoad(ctx context.Context, snapshot string) (*snapshotEntry, error) {
	s.mu.RLock()
	entry, ok := s.cache[snapshot]
	s.mu.RUnlock()
	if ok {
		return entry, nil
	}
	return s.load(ctx, snapshot)
}

// load reads a snapshot file, builds its providers, precomputes the summary
// and caches the result.
func (s *BrowseService) load(ctx context.Context, snapshot string) (*snapshotEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring the write lock.
	if entry, ok := s.cache[snapshot]; ok {
		return entry, nil
	}

	path := s.snapshotPath(snapshot)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, apperrors.New(apperrors.CodeNotFound, "snapshot not found: "+snapshot)
	}

	start := time.Now()
	h, err := heap.LoadSnapshot(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSnapshotError, "failed to load snapshot", err)
	}

	factory := browser.NewFactory(h, s.lang)
	policy := &browser.FieldPolicy{Language: s.lang}

	entry := &snapshotEntry{
		heap:    h,
		factory: factory,
		fields: browser.NewFieldsProvider(h, factory, browser.ComputerConfig{
			MaxItems:        s.cfg.MaxFields,
			CollapseUnit:    s.cfg.CollapseUnit,
			UnitLimit:       s.cfg.UnitLimit,
			SampleThreshold: s.cfg.SampleThreshold,
		}, policy),
		references: browser.NewReferencesProvider(h, factory, browser.ComputerConfig{
			MaxItems:        s.cfg.MaxReferences,
			CollapseUnit:    s.cfg.CollapseUnit,
			UnitLimit:       s.cfg.UnitLimit,
			SampleThreshold: s.cfg.SampleThreshold,
		}, nil, s.cfg.MaxReferers),
		items: browser.NewArrayItemsProvider(h, factory, browser.ComputerConfig{
			MaxItems:        s.cfg.MaxArrayItems,
			CollapseUnit:    s.cfg.CollapseUnit,
			UnitLimit:       s.cfg.UnitLimit,
			SampleThreshold: s.cfg.SampleThreshold,
		}),
	}
	entry.summary = computeSummary(ctx, h)

	if len(s.cache) >= s.maxCacheSize {
		for k := range s.cache {
			delete(s.cache, k)
			break
		}
	}
	s.cache[snapshot] = entry

	s.logger.Info("Loaded snapshot %s: %d instances in %v", snapshot, h.InstanceCount(), time.Since(start))
	return entry, nil
}

func (s *BrowseService) snapshotPath(snapshot string) string {
	return filepath.Join(s.dataDir, snapshot+".json")
}

// computeSummary aggregates per-class stats over chunks of the instance
// list in parallel, then merges the partial maps.
func computeSummary(ctx context.Context, h *heap.MemHeap) *SnapshotSummary {
	var instances []heap.Instance
	h.Instances(func(inst heap.Instance) bool {
		instances = append(instances, inst)
		return true
	})

	cfg := parallel.DefaultPoolConfig()
	chunks := chunkInstances(instances, cfg.MaxWorkers)

	pool := parallel.NewWorkerPool[[]heap.Instance, map[heap.ClassID]ClassStat](cfg)
	results := pool.ExecuteFunc(ctx, chunks, func(ctx context.Context, chunk []heap.Instance) (map[heap.ClassID]ClassStat, error) {
		local := make(map[heap.ClassID]ClassStat)
		for _, inst := range chunk {
			stat := local[inst.ClassID]
			stat.Count++
			stat.Size += inst.Size
			local[inst.ClassID] = stat
		}
		return local, nil
	})

	merged := make(map[heap.ClassID]ClassStat)
	var totalSize int64
	for _, r := range results {
		for classID, stat := range r.Result {
			m := merged[classID]
			m.Count += stat.Count
			m.Size += stat.Size
			merged[classID] = m
			totalSize += stat.Size
		}
	}

	stats := make([]ClassStat, 0, len(merged))
	for classID, stat := range merged {
		if cls, ok := h.ClassByID(classID); ok {
			stat.Name = cls.Name
		} else {
			stat.Name = "(unknown)"
		}
		stats = append(stats, stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Size != stats[j].Size {
			return stats[i].Size > stats[j].Size
		}
		return stats[i].Name < stats[j].Name
	})
	if len(stats) > 20 {
		stats = stats[:20]
	}

	return &SnapshotSummary{
		InstanceCount: len(instances),
		ClassCount:    len(merged),
		TotalSize:     totalSize,
		TopClasses:    stats,
	}
}

func chunkInstances(instances []heap.Instance, workers int) [][]heap.Instance {
	if len(instances) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(instances) {
		workers = len(instances)
	}

	chunkSize := (len(instances) + workers - 1) / workers
	chunks := make([][]heap.Instance, 0, workers)
	for start := 0; start < len(instances); start += chunkSize {
		end := start + chunkSize
		if end > len(instances) {
			end = len(instances)
		}
		chunks = append(chunks, instances[start:end])
	}
	return chunks
}

// parseObjectID parses an object ID, accepting "0x" hex, bare hex, and
// decimal forms.
func parseObjectID(s string) (heap.InstanceID, error) {
	if len(s) > 2 && s[:2] == "0x" {
		id, err := strconv.ParseUint(s[2:], 16, 64)
		return heap.InstanceID(id), err
	}
	if id, err := strconv.ParseUint(s, 16, 64); err == nil {
		return heap.InstanceID(id), nil
	}
	id, err := strconv.ParseUint(s, 10, 64)
	return heap.InstanceID(id), err
}

// formatObjectID renders an object ID as a hex string.
func formatObjectID(id heap.InstanceID) string {
	return fmt.Sprintf("0x%x", uint64(id))
}
