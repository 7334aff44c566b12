// Package agent contains the ReAct agent executor: a bounded reasoning loop
// that repeatedly queries a chat model, parses its free text for either a
// final answer or a tool invocation, dispatches tools and folds observations
// back into the prompt.
//
// State machine of one Run:
//
//	START -> THINK -> MODEL_CALL -> PARSE -> FINAL
//	                                    |--> ACTION -> DISPATCH -> OBSERVE -> THINK
//	                                    |--> (malformed) -> FINAL
//	after MaxIterations model calls    --> LIMIT_REACHED
//
// Design principles:
//   - The Executor holds configuration only; scratchpad and iteration counter
//     live in a per-call runState, so one Executor serves concurrent Runs
//   - Tool failures and unknown tools become observations, the loop continues
//   - Model failures abort the Run and are returned unchanged (*model.Error)
//   - Running out of iterations is a normal return (StoppedMessage), not an error
package agent
