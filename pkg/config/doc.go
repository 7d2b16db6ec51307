/*
Package config loads the category table and run settings for sortdir.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	   +---------+-----+-----+---------+
	   |         |           |         |
	+--+---+  +--+--+    +---+--+  +---+--+
	| YAML |  | HCL |    | JSON |  | TOML |
	+------+  +-----+    +------+  +------+

🎯 Purpose:
- Picks a parser by file extension
- Fills in defaults for anything left out
- Builds the category map used by the organizer
- Turns the notify block into notifier options

🔄 Flow:
1. GetParser matches the file name
2. Parse decodes strictly, unknown keys are errors
3. Validate applies defaults and checks every field
4. CategoryMap and NotifyOptions feed the operations

⚙️ Keys:

	categories        list of {name, extensions}, built-in table when empty
	fallback          folder for unmatched files, "Otros" by default
	ignore            doublestar globs relative to the target folder
	journal           journal file name, ".sortdir.journal.json" by default
	checkpoint_every  moves between journal checkpoints, 25 by default
	notify            {desktop, ntfy_topic, ntfy_timeout}

🔍 Example:

	# sortdir.yaml
	fallback: Misc
	ignore: ["*.part", "tmp/**"]
	categories:
	  - name: Fotos
	    extensions: [.jpg, .png, .heic]
	  - name: Papeles
	    extensions: [.pdf, .docx]
	notify:
	  desktop: false
	  ntfy_topic: https://ntfy.sh/my-downloads

	cfg, err := config.Load(ctx, "sortdir.yaml")
	if err != nil {
		return err
	}
	org, err := operation.New(operation.Options{Categories: cfg.CategoryMap()})
*/
package config
