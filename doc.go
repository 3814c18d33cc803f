// Package resumeflow generates tailored resumes through a multi-stage LLM
// workflow: qualification extraction, a human review gate, iterative
// drafting with parallel editor critique, and final synthesis.
//
// The package is organized into subpackages by domain:
//
//   - graph: Workflow graph engine (nodes, edges, fan-out, checkpoints)
//   - llm: LLM gateway clients (Gemini, Claude, mock)
//   - checkpoint: Durable checkpoint savers (file, Postgres)
//   - transcript: Model exchange recording and viewing
//   - prompt: Prompt template loading
//   - config: Layered configuration resolution
//   - notify: Run lifecycle notifications (log, webhook)
//   - context: Service dependency injection
//   - testutil: Test utilities and fixtures
//
// The root package holds the workflow itself: the state types, the node
// implementations, and the Studio facade that compiles and drives the
// pipeline.
//
// # Quick Start
//
//	studio, _ := resumeflow.New(
//	    resumeflow.WithClient(client),
//	    resumeflow.WithSaver(saver),
//	)
//
//	res, _ := studio.Invoke(ctx, resumeflow.Input{
//	    JobPost:     jobPost,
//	    ResumeInput: resume,
//	})
//
//	// Execution pauses before the human feedback gate.
//	if res.Interrupted {
//	    res, _ = studio.Resume(ctx, res.Thread, resumeflow.FeedbackApproved)
//	}
//
//	fmt.Println(res.State.ResumeDraft)
//
// See individual package documentation for detailed usage.
package resumeflow
