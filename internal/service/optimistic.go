package service

import "context"

// OptimisticMutation pairs a synchronous local state change with the remote
// call that is supposed to persist it. Apply and Revert are forward/inverse
// patches for one specific mutation: Revert must re-apply the exact inverse
// of Apply using the prior value captured when the closure was built, not
// whatever value is current at rollback time, so interleaved mutations stay
// correct.
type OptimisticMutation struct {
	Apply  func()
	Revert func()
	Call   Call
	Opts   ExecOptions
}

// ApplyOptimistic applies the local mutation immediately (so the UI reflects
// it with zero latency), then issues the remote call through ex. If the call
// fails, the local mutation is reversed and the executor's usual failure
// handling (error state, prompt, OnError) surfaces the failure. After a
// failed mutation the visible state is exactly what it was before the
// attempt.
func ApplyOptimistic(ctx context.Context, ex *Executor, m OptimisticMutation) (any, error) {
	if m.Apply != nil {
		m.Apply()
	}

	response, err := ex.Execute(ctx, m.Call, m.Opts)
	if err != nil {
		if m.Revert != nil {
			m.Revert()
		}
		return nil, err
	}
	return response, nil
}
