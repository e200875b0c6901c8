package service

import "learnhub/internal/model"

// Pure helpers of the module ordering engine. They operate on the active
// modules of one course, already sorted by order index, and return the slice
// with order indexes reassigned to the dense sequence 1..N. Persisting the
// batch is the calling service's job.

// reindexModules assigns 1..N following the current slice order.
func reindexModules(modules []model.Module) []model.Module {
	for i := range modules {
		modules[i].OrderIndex = i + 1
	}
	return modules
}

// insertModuleAt places module at targetPosition (1-based) among the active
// modules of its course and reindexes the result. The module is removed from
// the slice first if present, and targetPosition is clamped into [1, len+1].
func insertModuleAt(modules []model.Module, module model.Module, targetPosition int) []model.Module {
	without := modules[:0:0]
	for _, m := range modules {
		if m.ID != module.ID {
			without = append(without, m)
		}
	}

	idx := targetPosition - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(without) {
		idx = len(without)
	}

	result := make([]model.Module, 0, len(without)+1)
	result = append(result, without[:idx]...)
	result = append(result, module)
	result = append(result, without[idx:]...)

	return reindexModules(result)
}

// nextOrderIndex computes the index for a newly created module from the
// highest index ever assigned in the course, active or not. Density around
// soft-deleted modules is restored by the reorder routines, not here.
func nextOrderIndex(maxExisting int) int {
	if maxExisting < 0 {
		maxExisting = 0
	}
	return maxExisting + 1
}
