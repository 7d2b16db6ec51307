/*
Package operation implements the organize and undo runs.

	+-------------+
	|  Operation  |
	| (Core Logic)|
	+------+------+
	       |
	+------+------+------------------+
	|             |                  |
	+-------------+  +-------------+ +-------------+
	|    plan     |  |   status    | |   journal   |
	| (which      |  | (moves and  | | (what was   |
	|  files)     |  |  names)     | |  moved)     |
	+-------------+  +-------------+ +-------------+

🎯 Purpose:
- Organize: classify each planned file, pick a safe destination, move it
  and record the move
- UndoLast: replay the journal backwards, then clean up empty category
  folders and the journal
- Hold an exclusive lock on the root while either runs

🔄 Flow:
1. Root is checked (ErrInvalidRoot) and locked (ErrLocked)
2. plan lists the files, status.Resolve picks names
3. status.FileManager moves files, per-file errors become Failures
4. journal is checkpointed during the run and saved at the end

⚡ Key Responsibilities:
- Keep going after per-file failures
- Never overwrite a file unless overwrite was asked for
- Stop cleanly between files when the context is cancelled
- Dry runs that touch nothing and still pick the names a real run would

🔍 Example:

	org, err := operation.New(operation.Options{Logger: logger})
	if err != nil {
		return err
	}
	report, err := org.Organize(ctx, "/tmp/in", true, false)
	...
	undo, err := org.UndoLast(ctx, "/tmp/in")

Operations can also go through an OperationRunner, which serializes them:

	runner := operation.NewRunner(zerolog.Ctx(ctx))
	op := &operation.OrganizeOperation{Organizer: org, Root: dir, Recursive: true}
	err := runner.Run(ctx, op)
*/
package operation
