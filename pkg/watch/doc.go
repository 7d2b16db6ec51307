/*
Package watch keeps a folder organized by running an organize pass whenever
new files land in it.

	  fsnotify events
	        |
	  +-----v------+   irrelevant   +--------+
	  |   filter   |--------------->|  drop  |
	  +-----+------+                +--------+
	        | create/write
	  +-----v------+
	  |  debounce  |  quiet for Options.Debounce
	  +-----+------+
	        |
	  +-----v------+
	  |    pass    |  one at a time
	  +------------+

The filter uses the same plan.Planner as the pass, so moves into category
folders, journal checkpoints and the lock file never schedule another pass.
*/
package watch
