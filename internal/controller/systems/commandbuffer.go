package systems

import (
	"github.com/mlange-42/ark/ecs"

	"xrmodels/internal/controller/components"
	"xrmodels/internal/logger"
	"xrmodels/internal/render"
)

/*
CommandBufferSystem buffers structural changes collected during a tick and
applies them in PlayBack(). Ops are grouped into batches, one per device: a
batch's children and its ModelInfo are applied together or not at all.

A batch commits only if, at playback time, its device is alive, has no
ModelInfo yet, and no earlier batch for the same device committed in this
playback. Dropped batches release the asset handles they carried.
*/

type opKind uint8

const (
	opSpawnChild opKind = iota
	opInsertModelInfo
	opMarkFailed
)

type cbOp struct {
	k     opKind
	e     ecs.Entity
	batch uint64
	// payloads (only the relevant one is used per op)
	child  ChildSpec
	info   components.ModelInfo
	reason string
}

// ChildSpec is everything needed to spawn one submodel entity.
type ChildSpec struct {
	Name      string
	Transform render.Transform
	Mesh      components.Mesh
	Material  render.Material
}

// Batch groups the ops staged for one device.
type Batch struct {
	id     uint64
	device ecs.Entity
	start  int
}

// Device returns the entity the batch belongs to.
func (b Batch) Device() ecs.Entity { return b.device }

// PlaybackStats summarises one PlayBack call.
type PlaybackStats struct {
	Spawned   int
	Committed int
	Dropped   int
	Failed    int
}

type CommandBufferSystem struct {
	ops       []cbOp
	nextBatch uint64
	log       logger.Logger

	World     *ecs.World
	Children  *ecs.Map5[components.Name, components.Parent, components.Transform, components.Mesh, components.Material]
	ModelInfo *ecs.Map1[components.ModelInfo]
	Failed    *ecs.Map1[components.ModelFailed]

	last PlaybackStats
}

func NewCommandBufferSystem(w *ecs.World, log logger.Logger) *CommandBufferSystem {
	if log == nil {
		log = logger.NewNop()
	}
	return &CommandBufferSystem{
		World:     w,
		ops:       make([]cbOp, 0, 256),
		log:       log,
		Children:  ecs.NewMap5[components.Name, components.Parent, components.Transform, components.Mesh, components.Material](w),
		ModelInfo: ecs.NewMap1[components.ModelInfo](w),
		Failed:    ecs.NewMap1[components.ModelFailed](w),
	}
}

func (s *CommandBufferSystem) Initialize(_ *ecs.World) {}

// Update plays back everything staged since the previous tick.
func (s *CommandBufferSystem) Update(_ *ecs.World) {
	stats := s.PlayBack()
	if stats != (PlaybackStats{}) {
		s.log.Debug("command buffer played back",
			logger.F("spawned", stats.Spawned),
			logger.F("committed", stats.Committed),
			logger.F("dropped", stats.Dropped),
			logger.F("failed", stats.Failed))
	}
}

// Finalize drops anything still staged.
func (s *CommandBufferSystem) Finalize(_ *ecs.World) {
	s.Clear()
}

// Begin opens a batch for device. Batches must not interleave: stage all of
// one batch's ops before beginning the next.
func (s *CommandBufferSystem) Begin(device ecs.Entity) Batch {
	s.nextBatch++
	return Batch{id: s.nextBatch, device: device, start: len(s.ops)}
}

// SpawnChild stages a child entity parented to the batch's device. The batch
// takes ownership of the child's mesh and albedo handles.
func (s *CommandBufferSystem) SpawnChild(b Batch, child ChildSpec) {
	s.add(cbOp{k: opSpawnChild, e: b.device, batch: b.id, child: child})
}

// InsertModelInfo stages the device's ModelInfo and closes the batch. The
// batch takes ownership of the handles in info.
func (s *CommandBufferSystem) InsertModelInfo(b Batch, info components.ModelInfo) {
	s.add(cbOp{k: opInsertModelInfo, e: b.device, batch: b.id, info: info})
}

// Abort discards every op staged for b.
func (s *CommandBufferSystem) Abort(b Batch) {
	if b.start > len(s.ops) {
		return
	}
	for i := b.start; i < len(s.ops); i++ {
		releaseOp(&s.ops[i])
		s.ops[i] = cbOp{}
	}
	s.ops = s.ops[:b.start]
}

// MarkFailed stages a ModelFailed marker for device.
func (s *CommandBufferSystem) MarkFailed(device ecs.Entity, reason string) {
	s.add(cbOp{k: opMarkFailed, e: device, reason: reason})
}

// Len returns the number of staged ops.
func (s *CommandBufferSystem) Len() int { return len(s.ops) }

// LastPlayback returns the stats of the most recent PlayBack.
func (s *CommandBufferSystem) LastPlayback() PlaybackStats { return s.last }

// Clear drops all staged ops, releasing their handles.
func (s *CommandBufferSystem) Clear() {
	for i := range s.ops {
		releaseOp(&s.ops[i])
		s.ops[i] = cbOp{}
	}
	s.ops = s.ops[:0]
}

func (s *CommandBufferSystem) add(op cbOp) { s.ops = append(s.ops, op) }

// PlayBack applies staged ops with liveness/has guards. It must not run
// while a query is open.
func (s *CommandBufferSystem) PlayBack() PlaybackStats {
	var stats PlaybackStats

	aliveCache := make(map[ecs.Entity]bool, 16)
	alive := func(e ecs.Entity) bool {
		if v, ok := aliveCache[e]; ok {
			return v
		}
		v := s.World.Alive(e)
		aliveCache[e] = v
		return v
	}

	// Decide which batches commit before touching the world.
	commit := make(map[uint64]bool, 8)
	claimed := make(map[ecs.Entity]bool, 8)
	for i := range s.ops {
		op := &s.ops[i]
		if op.k != opInsertModelInfo {
			continue
		}
		ok := alive(op.e) && !claimed[op.e] && !s.ModelInfo.HasAll(op.e)
		if ok {
			claimed[op.e] = true
			stats.Committed++
		} else {
			stats.Dropped++
		}
		commit[op.batch] = ok
	}

	for i := range s.ops {
		op := &s.ops[i]

		switch op.k {
		case opSpawnChild:
			if !commit[op.batch] {
				releaseOp(op)
				break
			}
			name := components.Name(op.child.Name)
			parent := components.Parent{Entity: op.e}
			transform := components.Transform{Transform: op.child.Transform}
			mesh := op.child.Mesh
			material := components.Material{Material: op.child.Material}
			s.Children.NewEntity(&name, &parent, &transform, &mesh, &material)
			stats.Spawned++

		case opInsertModelInfo:
			if !commit[op.batch] {
				releaseOp(op)
				break
			}
			info := op.info
			s.ModelInfo.Add(op.e, &info)

		case opMarkFailed:
			if !alive(op.e) || claimed[op.e] || s.ModelInfo.HasAll(op.e) || s.Failed.HasAll(op.e) {
				break
			}
			s.Failed.Add(op.e, &components.ModelFailed{Reason: op.reason})
			stats.Failed++
		}

		// zero the slot
		s.ops[i] = cbOp{}
	}
	s.ops = s.ops[:0]
	s.last = stats
	return stats
}

// releaseOp drops the asset references an unapplied op owns.
func releaseOp(op *cbOp) {
	switch op.k {
	case opSpawnChild:
		op.child.Mesh.Handle.Release()
		op.child.Material.Albedo.Release()
	case opInsertModelInfo:
		for _, cm := range op.info.ComponentModels {
			cm.Mesh.Release()
			cm.Texture.Release()
		}
	}
}
