package systems

import (
	"testing"

	"github.com/mlange-42/ark-tools/app"
	"github.com/mlange-42/ark/ecs"

	"xrmodels/internal/assets"
	"xrmodels/internal/controller/components"
	"xrmodels/internal/geometry"
	"xrmodels/internal/render"
)

type bufferFixture struct {
	world    *ecs.World
	meshes   *assets.Storage[render.Mesh]
	textures *assets.Storage[render.Texture]
	cb       *CommandBufferSystem
	devices  *ecs.Map1[components.TrackingDevice]
}

func newBufferFixture() *bufferFixture {
	tool := app.New(1024).Seed(123)
	world := &tool.World
	return &bufferFixture{
		world:    world,
		meshes:   assets.NewStorage[render.Mesh]("meshes"),
		textures: assets.NewStorage[render.Texture]("textures"),
		cb:       NewCommandBufferSystem(world, nil),
		devices:  ecs.NewMap1[components.TrackingDevice](world),
	}
}

// stage queues a complete batch of n children for device.
func (f *bufferFixture) stage(device ecs.Entity, n int) Batch {
	b := f.cb.Begin(device)
	models := make([]components.ComponentModel, 0, n)
	for i := 0; i < n; i++ {
		mesh := f.meshes.Insert(render.Mesh{Vertices: []geometry.Vertex{{}}})
		tex := f.textures.Insert(render.Texture{Width: 1, Height: 1})
		f.cb.SpawnChild(b, ChildSpec{
			Name:      "child",
			Transform: render.IdentityTransform(),
			Mesh:      components.Mesh{Handle: mesh},
			Material:  render.Material{Albedo: tex},
		})
		models = append(models, components.ComponentModel{Name: "child", Mesh: mesh.Clone(), Texture: tex.Clone()})
	}
	f.cb.InsertModelInfo(b, components.ModelInfo{ComponentModels: models})
	return b
}

func (f *bufferFixture) childCount() int {
	query := ecs.NewFilter1[components.Parent](f.world).Query()
	n := query.Count()
	query.Close()
	return n
}

func TestPlayBackCommitsBatch(t *testing.T) {
	f := newBufferFixture()
	device := f.devices.NewEntity(&components.TrackingDevice{ID: 1})

	f.stage(device, 3)
	if f.cb.Len() != 4 {
		t.Fatalf("expected 4 staged ops, got %d", f.cb.Len())
	}
	stats := f.cb.PlayBack()

	if stats.Spawned != 3 || stats.Committed != 1 || stats.Dropped != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if f.childCount() != 3 {
		t.Errorf("expected 3 children, got %d", f.childCount())
	}
	if info := f.cb.ModelInfo.Get(device); info == nil || len(info.ComponentModels) != 3 {
		t.Errorf("unexpected ModelInfo %+v", info)
	}
	if f.cb.Len() != 0 {
		t.Error("buffer must be empty after playback")
	}
	// Each asset is held by the child and by the record.
	if f.meshes.Len() != 3 {
		t.Errorf("expected 3 live meshes, got %d", f.meshes.Len())
	}
}

func TestPlayBackDropsBatchForDeadDevice(t *testing.T) {
	f := newBufferFixture()
	device := f.devices.NewEntity(&components.TrackingDevice{ID: 1})

	f.stage(device, 2)
	f.world.RemoveEntity(device)
	stats := f.cb.PlayBack()

	if stats.Spawned != 0 || stats.Dropped != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if f.childCount() != 0 {
		t.Errorf("expected no children, got %d", f.childCount())
	}
	if f.meshes.Len() != 0 || f.textures.Len() != 0 {
		t.Errorf("dropped batch leaked assets: meshes=%d textures=%d", f.meshes.Len(), f.textures.Len())
	}
}

func TestPlayBackCommitsOnlyFirstBatchPerDevice(t *testing.T) {
	f := newBufferFixture()
	device := f.devices.NewEntity(&components.TrackingDevice{ID: 1})

	f.stage(device, 2)
	f.stage(device, 2)
	stats := f.cb.PlayBack()

	if stats.Committed != 1 || stats.Dropped != 1 || stats.Spawned != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if f.childCount() != 2 {
		t.Errorf("expected 2 children, got %d", f.childCount())
	}

	// A later batch sees the record and is dropped as well.
	f.stage(device, 1)
	stats = f.cb.PlayBack()
	if stats.Committed != 0 || stats.Dropped != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if f.childCount() != 2 {
		t.Errorf("expected children to stay at 2, got %d", f.childCount())
	}
}

func TestAbortDiscardsOnlyThatBatch(t *testing.T) {
	f := newBufferFixture()
	first := f.devices.NewEntity(&components.TrackingDevice{ID: 1})
	second := f.devices.NewEntity(&components.TrackingDevice{ID: 2})

	f.stage(first, 1)
	staged := f.cb.Len()
	b := f.stage(second, 2)
	f.cb.Abort(b)

	if f.cb.Len() != staged {
		t.Fatalf("expected %d ops after abort, got %d", staged, f.cb.Len())
	}
	f.cb.PlayBack()

	if !f.cb.ModelInfo.HasAll(first) || f.cb.ModelInfo.HasAll(second) {
		t.Error("abort must only affect its own batch")
	}
	if f.meshes.Len() != 1 {
		t.Errorf("expected 1 live mesh, got %d", f.meshes.Len())
	}
}

func TestUnclosedBatchIsNotApplied(t *testing.T) {
	f := newBufferFixture()
	device := f.devices.NewEntity(&components.TrackingDevice{ID: 1})

	b := f.cb.Begin(device)
	mesh := f.meshes.Insert(render.Mesh{})
	f.cb.SpawnChild(b, ChildSpec{Name: "orphan", Mesh: components.Mesh{Handle: mesh}})
	f.cb.PlayBack()

	if f.childCount() != 0 {
		t.Error("children of a batch without ModelInfo must not spawn")
	}
	if f.meshes.Len() != 0 {
		t.Error("unapplied child must release its mesh")
	}
}

func TestMarkFailed(t *testing.T) {
	f := newBufferFixture()
	device := f.devices.NewEntity(&components.TrackingDevice{ID: 1})
	dead := f.devices.NewEntity(&components.TrackingDevice{ID: 2})
	f.world.RemoveEntity(dead)

	f.cb.MarkFailed(device, "boom")
	f.cb.MarkFailed(device, "again")
	f.cb.MarkFailed(dead, "gone")
	stats := f.cb.PlayBack()

	if stats.Failed != 1 {
		t.Errorf("expected 1 failure marker, got %d", stats.Failed)
	}
	if got := f.cb.Failed.Get(device); got == nil || got.Reason != "boom" {
		t.Errorf("unexpected marker %+v", got)
	}
}

func TestClearReleasesStagedHandles(t *testing.T) {
	f := newBufferFixture()
	device := f.devices.NewEntity(&components.TrackingDevice{ID: 1})

	f.stage(device, 2)
	f.cb.Finalize(f.world)

	if f.cb.Len() != 0 || f.meshes.Len() != 0 || f.textures.Len() != 0 {
		t.Errorf("clear left ops=%d meshes=%d textures=%d", f.cb.Len(), f.meshes.Len(), f.textures.Len())
	}
}
