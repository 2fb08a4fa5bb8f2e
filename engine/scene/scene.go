package scene

import (
	"fmt"
	"log"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// defaultInstancesPerAnimator caps how many instances share one Animator before the
// scene opens another for the same Model. Each Animator is one unit of parallel work.
const defaultInstancesPerAnimator = 200

// Scene manages a collection of Animators (created implicitly via Add, one group per Model)
// and a registry of non-ephemeral GameObjects. Each frame PrepareFrame advances every
// Animator in parallel on a reusable worker pool.
// Scenes can be toggled via the Active flag so the engine skips inactive ones.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently advanced by the engine.
	Active() bool

	// SetActive sets whether this scene is advanced by the engine.
	SetActive(active bool)

	// Count returns the number of persisted GameObjects in the scene's registry. Does not include ephemeral objects.
	//
	// Returns:
	//   - int: count of non-ephemeral GameObjects in the registry
	Count() int

	// CountInstances returns the number of animated instances across all animators,
	// ephemeral objects included.
	//
	// Returns:
	//   - int: count of animator instances
	CountInstances() int

	// Add adds a GameObject to the scene. The object must carry a Model. The scene looks up
	// or creates an Animator for the Model, adds an instance initialized with the object's
	// buffered transform and playback request, and wires the object to it. If the object
	// is not ephemeral it is also persisted in the registry for later lookup or removal by ID.
	//
	// Panics if the object has no Model.
	//
	// Parameters:
	//   - obj: the GameObject to add
	//
	// Returns:
	//   - uint64: the assigned object ID
	Add(obj game_object.GameObject) uint64

	// Get retrieves a non-ephemeral GameObject by its ID.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Objects returns the enabled non-ephemeral GameObjects ordered by ID.
	//
	// Returns:
	//   - []game_object.GameObject: the enabled objects
	Objects() []game_object.GameObject

	// Remove removes a non-ephemeral GameObject from the registry by ID
	// and swap-removes its instance from its animator.
	//
	// Parameters:
	//   - id: the object's unique ID
	Remove(id uint64)

	// Clear removes all objects and animators from the scene.
	Clear()

	// Animators returns every Animator owned by the scene.
	//
	// Returns:
	//   - []animator.Animator: the animators
	Animators() []animator.Animator

	// PrepareFrame advances playback and resolves palettes for every instance in the scene.
	// Animators are processed in parallel; the call returns once all of them are done.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	PrepareFrame(deltaTime float32)
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	animatorPool map[model.Model][]animator.Animator
	registry     map[uint64]game_object.GameObject // non-ephemeral objects by ID
	nextID       uint64

	instancesPerAnimator int
	pending              []game_object.GameObject // objects queued by WithObjects

	// computePool manages a bounded set of reusable goroutines for PrepareFrame.
	// Workers persist across frames, avoiding per-frame goroutine spawn/teardown overhead.
	computePool    worker.DynamicWorkerPool
	computeWorkers int
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:                   &sync.RWMutex{},
		name:                 name,
		active:               true,
		animatorPool:         make(map[model.Model][]animator.Animator),
		registry:             make(map[uint64]game_object.GameObject),
		nextID:               1,
		instancesPerAnimator: defaultInstancesPerAnimator,
		computeWorkers:       max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the compute pool after options so WithComputeWorkers can override the default.
	// Queue size of 256 accommodates typical animator group counts with headroom.
	s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)

	for _, obj := range s.pending {
		s.Add(obj)
	}
	s.pending = nil

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) CountInstances() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, anim := range s.animatorPool {
		for _, a := range anim {
			count += int(a.InstanceCount())
		}
	}
	return count
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	mdl := obj.Model()
	if mdl == nil {
		panic("scene: cannot Add a GameObject without a Model")
	}

	if obj.ID() == 0 {
		obj.SetID(atomic.AddUint64(&s.nextID, 1) - 1)
	}

	// Lookup or create an Animator for this Model with spare capacity.
	var anim animator.Animator
	for _, a := range s.animatorPool[mdl] {
		if int(a.InstanceCount()) < s.instancesPerAnimator {
			anim = a
			break
		}
	}
	if anim == nil {
		anim = animator.NewAnimator(animator.WithModel(mdl), animator.WithMaxInstances(s.instancesPerAnimator))
		s.animatorPool[mdl] = append(s.animatorPool[mdl], anim)
	}

	// Capture buffered state from the GameObject BEFORE wiring the animator. Once
	// SetAnimator is called, reads go to the animator's instance slot instead.
	transform := obj.Transform()
	clipName, loop, speed := obj.InitialPlayback()

	idx, err := anim.AddInstance()
	if err != nil {
		panic(fmt.Sprintf("scene: failed to add instance for model %q: %v", mdl.Name(), err))
	}
	obj.SetAnimator(anim)
	obj.SetAnimatorInstanceID(int(idx))

	anim.SetInstanceTransform(idx, transform)
	if clipName != "" {
		if ci := mdl.ClipIndex(clipName); ci >= 0 {
			anim.PlayAnimation(idx, uint32(ci), loop)
			anim.SetAnimationSpeed(idx, speed)
		} else {
			log.Printf("[Scene] %q: model %q has no clip %q, object %d stays in rest pose", s.name, mdl.Name(), clipName, obj.ID())
		}
	}

	if !obj.Ephemeral() {
		s.registry[obj.ID()] = obj
	}

	return obj.ID()
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objects := make([]game_object.GameObject, 0, len(s.registry))
	for _, o := range s.registry {
		if o.Enabled() {
			objects = append(objects, o)
		}
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].ID() < objects[j].ID() })
	return objects
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, exists := s.registry[id]
	if !exists {
		return
	}

	delete(s.registry, id)

	// Swap-remove the instance data from the animator
	if anim := obj.Animator(); anim != nil {
		removedIdx := obj.AnimatorInstanceID()
		if removedIdx >= 0 {
			swappedFrom, swapped := anim.RemoveInstance(uint32(removedIdx))
			if swapped {
				// The instance at swappedFrom was moved into removedIdx; find the
				// registry object that owned that slot and update its stored index.
				for _, o := range s.registry {
					if o.Animator() == anim && o.AnimatorInstanceID() == int(swappedFrom) {
						o.SetAnimatorInstanceID(removedIdx)
						break
					}
				}
			}
			obj.SetAnimatorInstanceID(-1)
			obj.SetAnimator(nil)
		}
	}
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.registry {
		o.SetAnimator(nil)
		o.SetAnimatorInstanceID(-1)
	}
	s.animatorPool = make(map[model.Model][]animator.Animator)
	s.registry = make(map[uint64]game_object.GameObject)
}

func (s *scene) Animators() []animator.Animator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []animator.Animator
	for _, anim := range s.animatorPool {
		out = append(out, anim...)
	}
	return out
}

func (s *scene) PrepareFrame(deltaTime float32) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Fan each animator out to the compute pool. A WaitGroup provides the per-frame
	// barrier since pool.Wait() blocks until workers idle-exit.
	var wg sync.WaitGroup
	taskID := 0
	for _, anim := range s.animatorPool {
		for _, a := range anim {
			if a.InstanceCount() == 0 {
				continue
			}

			wg.Add(1)
			aCap := a
			id := taskID
			taskID++
			s.computePool.SubmitTask(worker.Task{
				ID: id,
				Do: func() (any, error) {
					defer wg.Done()
					aCap.PrepareFrame(deltaTime)
					return nil, nil
				},
			})
		}
	}
	wg.Wait()
}
