package i18n

// EnMessages English message catalog
var EnMessages = map[string]string{
	"app.title": "BrickTrack",

	// Views
	"view.tracker": "Tracker",
	"view.gallery": "Gallery",

	// Stats cards
	"stats.total_time":     "Total build time",
	"stats.sets_completed": "Sets completed",
	"stats.avg_bag":        "Avg bag time",
	"stats.ppm":            "Pieces / min",
	"stats.pieces":         "Pieces built",

	// Status
	"status.PLANNING":    "Planning",
	"status.IN_PROGRESS": "In progress",
	"status.COMPLETED":   "Completed",

	// Build queue
	"queue.title": "Build queue",
	"queue.empty": "No sets yet. Press n to add one.",

	// Detail card
	"detail.select":      "Select a project to start tracking",
	"detail.set_number":  "Set #%s",
	"detail.pieces":      "Pieces",
	"detail.bags":        "Bags",
	"detail.current_bag": "Current bag",
	"detail.speed":       "Speed",
	"detail.speed_value": "%.1f ppm",
	"detail.status":      "Status",
	"detail.time_log":    "Time logged",
	"detail.theme":       "Theme",
	"detail.image":       "Image",

	// Timer
	"timer.title":    "Active session",
	"timer.bag":      "Building bag",
	"timer.of":       "of %d",
	"timer.finish":   "Finish bag",
	"timer.running":  "Running",
	"timer.paused":   "Paused",
	"timer.idle":     "Ready",
	"timer.logged":   "Bag %d logged in %s",
	"timer.rejected": "Nothing to log yet, start the timer first.",

	// Chart and history
	"chart.title":     "Pace chart (minutes per bag)",
	"chart.empty":     "Log a bag to see the chart.",
	"chart.bar_label": "Bag %d",
	"history.title":   "Bag history",
	"history.entries": "%d entries",
	"history.empty":   "No sessions yet.",

	// Gallery
	"gallery.title":   "My collection",
	"gallery.summary": "%d sets completed · %d pieces",
	"gallery.empty":   "Your archive is empty.",
	"gallery.bags":    "%d/%d bags",

	// New set modal
	"modal.title":              "New set",
	"modal.name":               "Name",
	"modal.set_number":         "Set number",
	"modal.pieces":             "Total pieces",
	"modal.bags":               "Total bags",
	"modal.theme":              "Theme",
	"modal.image_url":          "Image URL",
	"modal.photo":              "Photo path",
	"modal.search":             "Search",
	"modal.search_placeholder": "Set name or number",
	"modal.sources":            "Sources",
	"modal.create":             "Initialize build",
	"modal.scanning":           "Scanning box...",
	"modal.searching":          "Searching...",
	"modal.scan_failed":        "Could not identify the set.",
	"modal.search_failed":      "No result found.",
	"modal.read_failed":        "Cannot read image: %s",
	"modal.hint":               "tab next field · ctrl+s search · ctrl+o scan photo · enter create · esc cancel",

	// Insight
	"insight.title":    "Master builder insights",
	"insight.loading":  "Analyzing your builds...",
	"insight.fallback": "Insight error.",
	"insight.error":    "Error analyzing stats.",
	"insight.prompt": "You are a master brick builder and coach. Here is the build data of my sets as JSON " +
		"(name, pieces, bags, totalTimeSeconds, bagAverage): %s\n" +
		"Analyze my building performance: compare my speed across sets, point out my fastest and slowest " +
		"builds, and give two or three short, encouraging tips to improve. Answer in English, in Markdown, " +
		"in under 200 words.",

	// Delete
	"delete.confirm": "Delete \"%s\"? (y/n)",
	"delete.done":    "Deleted %s",

	// Language
	"lang.switched": "Language: %s",

	// Keybindings
	"keys.nav":     "↑/↓ select",
	"keys.start":   "space start/pause",
	"keys.finish":  "enter finish bag",
	"keys.reset":   "r reset",
	"keys.bag":     "+/- bag",
	"keys.new":     "n new",
	"keys.delete":  "d delete",
	"keys.insight": "i insight",
	"keys.view":    "v view",
	"keys.lang":    "l language",
	"keys.quit":    "q quit",

	// Line shell
	"shell.welcome":    "BrickTrack shell. Type help for commands.",
	"shell.unknown":    "Unknown command: %s",
	"shell.usage":      "Usage: %s",
	"shell.no_active":  "No set selected.",
	"shell.not_found":  "No set matches %q.",
	"shell.selected":   "Selected %s",
	"shell.created":    "Created %s",
	"shell.bag_set":    "Working bag: %d",
	"shell.started":    "Timer running.",
	"shell.paused":     "Timer paused at %s.",
	"shell.reset":      "Timer reset.",
	"shell.view":       "View: %s",
	"shell.bye":        "Bye.",
	"shell.found":      "Found: %s",
	"shell.draft":      "Draft: %s · #%s · %s pieces · %s bags · %s",
	"shell.draft_hint": "Type new to create it, or new <name> to override the name.",

	"cmd.help":    "Show available commands",
	"cmd.list":    "List sets, newest first",
	"cmd.select":  "Select a set by list number or id",
	"cmd.new":     "Create a set from the draft: new [name] [#set] [pieces] [bags]",
	"cmd.delete":  "Delete the selected set",
	"cmd.bag":     "Set the working bag number",
	"cmd.start":   "Start the timer",
	"cmd.pause":   "Pause the timer",
	"cmd.reset":   "Reset the timer",
	"cmd.done":    "Finish the current bag",
	"cmd.stats":   "Show collection stats and the selected set",
	"cmd.insight": "Ask the AI for a performance insight",
	"cmd.search":  "Look a set up by name or number",
	"cmd.scan":    "Identify a set from a box photo",
	"cmd.lang":    "Toggle or set the language (en/fr)",
	"cmd.view":    "Switch between tracker and gallery",
	"cmd.quit":    "Exit",

	// Errors
	"error.save":   "Could not save: %v",
	"error.config": "Config error: %v",
}
