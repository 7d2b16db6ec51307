/*
Package status owns every file system mutation sortdir performs.

	            +-------------+
	            |   Status    |
	            |  (Storage)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +-----+-----+
	|   Moves   |           | Collision |
	| (rename / |           |  Resolver |
	| copy+sum) |           |           |
	+-----------+           +-----------+

🎯 Purpose:
- Wraps the local file system behind the FileManager interface
- Moves files with rename, falling back to a verified copy across devices
- Writes journal files atomically (temp file + rename)
- Picks non-clobbering destination names (Resolve)

🔄 Flow:
1. operation asks Resolve for a safe destination
2. operation calls MoveFile / CreateDir / RemoveDir
3. journal calls WriteFileAtomic / ReadFile / DeleteFile

📝 Design Philosophy:
Nothing outside this package touches os.* for mutations. Tests swap the
Manager for a FileManager that injects failures on chosen paths.

🔍 Example:

	fm := status.New()
	dst := status.Resolve(ctx, fm, "/tmp/in/Documentos/report.txt", false)
	err := fm.MoveFile(ctx, "/tmp/in/report.txt", dst)
*/
package status
