/*
Package plan finds the files an organize run should move.

	+-------------+
	|   Planner   |
	+------+------+
	       |
	+------+------+        +-------------+
	|  WalkDir    |------->|  category   |
	| (top-down)  |        |  folder     |
	+-------------+        |  names      |
	                       +-------------+

🎯 Purpose:
- Lists the direct files of a root, or walks it recursively
- Prunes directories that already look organized
- Skips files sitting in a category folder
- Skips the journal, its temp files, the lock file and ignored paths

A directory looks organized when its own name is a category name or when it
directly contains a folder with a category name. The root is always scanned.

🔍 Example:

	p := plan.New(category.Default(), []string{"node_modules", "*.part"})
	for path, err := range p.Plan(ctx, "/tmp/in", true) {
		if err != nil {
			return err
		}
		fmt.Println(path)
	}
*/
package plan
