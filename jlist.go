package fakerjen

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// JennyListWithNamer creates an empty JennyList whose errors name the input
// they occurred for, using namer.
func JennyListWithNamer[Input any](namer func(t Input) string) *JennyList[Input] {
	return &JennyList[Input]{
		inputnamer: namer,
	}
}

// JennyList runs a sequence of jennies over the same inputs and collects
// everything they produce into one [FS]. It implements [ManyToMany], so lists
// can be nested.
//
// All jennies in a list share one path namespace: a path emitted twice is an
// error. Paths are not rewritten, but every File passes through the list's
// postprocessors, in the order they were added.
//
// An input that fails does not stop the others. Every error is collected,
// and a File returned alongside an error is kept.
type JennyList[Input any] struct {
	mut sync.RWMutex

	jennies []NamedJenny

	post []FileMapper

	// inputnamer, if non-nil, gives a name to an input.
	inputnamer func(t Input) string

	// parallelism is the maximum number of concurrent calls made to a single
	// OneToOne jenny. Zero or one means sequential.
	parallelism int
}

func (js *JennyList[Input]) JennyName() string {
	return fmt.Sprintf("JennyList[%s]", reflect.TypeOf(new(Input)).Elem().Name())
}

// SetParallelism sets how many inputs a OneToOne jenny may process at once.
// Output is identical regardless of the setting.
func (js *JennyList[Input]) SetParallelism(n int) {
	js.mut.Lock()
	js.parallelism = n
	js.mut.Unlock()
}

func (js *JennyList[Input]) wrapinerr(in Input, err error) error {
	if err == nil || js.inputnamer == nil {
		return err
	}
	return fmt.Errorf("%w for input %q", err, js.inputnamer(in))
}

type oneResult struct {
	f   *File
	err error
}

// runOne calls the jenny once per input, fanning out up to the configured
// parallelism. Results are returned in input order.
func (js *JennyList[Input]) runOne(jenny OneToOne[Input], objs []Input) []oneResult {
	results := make([]oneResult, len(objs))
	var g errgroup.Group
	g.SetLimit(max(js.parallelism, 1))
	for i := range objs {
		i := i
		g.Go(func() error {
			f, err := jenny.Generate(objs[i])
			results[i] = oneResult{f: f, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// collect postprocesses the output of one jenny call and adds it to jfs.
// genErr is the error the jenny itself returned.
func (js *JennyList[Input]) collect(jfs *FS, j NamedJenny, fl Files, genErr error) error {
	var result *multierror.Error
	if genErr != nil {
		result = multierror.Append(result, fmt.Errorf("%s: %w", j.JennyName(), genErr))
	}

	if len(fl) > 0 {
		if err := fl.Validate(); err != nil {
			return multierror.Append(result, fmt.Errorf("%s returned invalid Files: %w", j.JennyName(), err))
		}
		for i, f := range fl {
			f.From = append([]NamedJenny{j}, f.From...)
			for _, post := range js.post {
				of, err := post(f)
				if err != nil {
					return multierror.Append(result, fmt.Errorf("postprocessing of %s from %s failed: %w", f.RelativePath, jennystack(f.From), err))
				}
				f = of
			}
			fl[i] = f
		}
		if err := jfs.Add(fl...); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if result != nil && len(result.Errors) == 1 {
		return result.Errors[0]
	}
	return result.ErrorOrNil()
}

// GenerateFS runs every jenny in the list and gathers their output.
//
// The FS is nil only for an empty list. When some inputs failed, the FS
// holds everything that was produced and the error aggregates each failure.
func (js *JennyList[Input]) GenerateFS(objs []Input) (*FS, error) {
	js.mut.RLock()
	defer js.mut.RUnlock()

	if len(js.jennies) == 0 {
		return nil, nil
	}

	jfs := NewFS()
	result := new(multierror.Error)
	for _, j := range js.jennies {
		switch jenny := j.(type) {
		case OneToOne[Input]:
			for i, res := range js.runOne(jenny, objs) {
				var fl Files
				if res.f != nil && res.f.Exists() {
					fl = Files{*res.f}
				}
				if res.err == nil && len(fl) == 0 {
					continue
				}
				if err := js.wrapinerr(objs[i], js.collect(jfs, jenny, fl, res.err)); err != nil {
					result = multierror.Append(result, err)
				}
			}
		case ManyToMany[Input]:
			fl, gerr := jenny.Generate(objs)
			if err := js.collect(jfs, jenny, fl, gerr); err != nil {
				result = multierror.Append(result, err)
			}
		default:
			panic("unreachable")
		}
	}

	return jfs, result.ErrorOrNil()
}

// Generate implements [ManyToMany]. On partial failure, the Files that were
// produced are returned alongside the error.
func (js *JennyList[Input]) Generate(objs []Input) (Files, error) {
	jfs, err := js.GenerateFS(objs)
	if jfs == nil {
		return nil, err
	}
	return jfs.AsFiles(), err
}

func (js *JennyList[Input]) append(jennies ...NamedJenny) {
	js.mut.Lock()
	js.jennies = append(js.jennies, jennies...)
	js.mut.Unlock()
}

func named[J NamedJenny](jennies []J) []NamedJenny {
	nl := make([]NamedJenny, len(jennies))
	for i, j := range jennies {
		nl[i] = j
	}
	return nl
}

// Append adds jennies to the end of the list. Jennies run in the order they
// were appended.
//
// Each jenny must also implement [OneToOne] or [ManyToMany], or Append
// panics. AppendOneToOne and AppendManyToMany check this at compile time.
func (js *JennyList[Input]) Append(jennies ...Jenny[Input]) {
	for _, j := range jennies {
		switch j.(type) {
		case OneToOne[Input], ManyToMany[Input]:
		default:
			panic(fmt.Sprintf("%T is not a valid Jenny, must implement (OneToOne | ManyToMany)", j))
		}
	}
	js.append(named(jennies)...)
}

// AppendOneToOne is like [JennyList.Append], but typesafe for OneToOne jennies.
func (js *JennyList[Input]) AppendOneToOne(jennies ...OneToOne[Input]) {
	js.append(named(jennies)...)
}

// AppendManyToMany is like [JennyList.Append], but typesafe for ManyToMany jennies.
func (js *JennyList[Input]) AppendManyToMany(jennies ...ManyToMany[Input]) {
	js.append(named(jennies)...)
}

// AddPostprocessors appends fn to the FileMappers run, in order, on every
// File the list produces.
func (js *JennyList[Input]) AddPostprocessors(fn ...FileMapper) {
	js.mut.Lock()
	js.post = append(js.post, fn...)
	js.mut.Unlock()
}
