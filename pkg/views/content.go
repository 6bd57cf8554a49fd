package views

// Step is one stage of the system workflow.
type Step struct {
	Label string `json:"label"`
	Sub   string `json:"sub"`
}

// TechEntry is one entry of the technology list.
type TechEntry struct {
	Title string `json:"title"`
	Desc  string `json:"desc"`
	Color string `json:"color"`
}

// Member is one student of the project team.
type Member struct {
	SNo    int    `json:"s_no"`
	RollNo string `json:"roll_no"`
	Name   string `json:"name"`
}

// OverviewContent is the project overview panel.
type OverviewContent struct {
	Title      string   `json:"title"`
	Abstract   string   `json:"abstract"`
	Features   []string `json:"features"`
	Advantages []string `json:"advantages"`
	Workflow   []Step   `json:"workflow"`
}

// TechContent is the technologies panel.
type TechContent struct {
	Title    string      `json:"title"`
	Subtitle string      `json:"subtitle"`
	Techs    []TechEntry `json:"techs"`
	Tools    []string    `json:"tools"`
}

// TeamContent is the project team panel.
type TeamContent struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Members  []Member `json:"members"`
	Mentors  []string `json:"mentors"`
}

// SimulationContent describes the live interaction panel. Its dynamic parts
// come from the session API.
type SimulationContent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	SessionURL  string `json:"session_url"`
	CameraURL   string `json:"camera_url"`
}

// Panel is the payload returned for a view.
type Panel struct {
	Name    View   `json:"name"`
	Label   string `json:"label"`
	Content any    `json:"content"`
}

// Content returns the panel for the named view, falling back to Overview.
func Content(name string) Panel {
	v := Parse(name)
	p := Panel{Name: v, Label: Label(v)}
	switch v {
	case Simulation:
		p.Content = simulation
	case Tech:
		p.Content = techContent
	case Team:
		p.Content = teamContent
	default:
		p.Content = overview
	}
	return p
}

// Label returns the navigation label of a view.
func Label(v View) string {
	switch v {
	case Simulation:
		return "Live Interaction"
	case Tech:
		return "Technologies"
	case Team:
		return "Project Team"
	default:
		return "Overview"
	}
}

var overview = OverviewContent{
	Title: "Air Magic Interaction in Human-Computer Interfaces",
	Abstract: "We propose a novel visual-interaction-based system for cross-device content " +
		"transfer that eliminates the need for traditional input peripherals. The system " +
		"utilizes a lightweight vision-based perception module to detect predefined spatial " +
		"hand configurations, which act as implicit triggers to initiate screen capture on " +
		"the source device. Unlike conventional systems, our method introduces a hands-free, " +
		"vision-driven communication protocol using visual context cues alone.",
	Features: []string{
		"Vision-based gesture recognition using OpenCV & MediaPipe",
		"Hands-free screen capture automation",
		"Real-time cross-device transfer over local LAN",
		"Minimal latency HTTP communication protocol",
		"Unconstrained environment performance",
	},
	Advantages: []string{
		"Hygienic: No physical contact required",
		"Efficient: Instant transfer without manual menus",
		"Low Cost: Uses standard off-the-shelf webcams",
		"Secure: Local network data exchange",
		"Accessible: Friendly for users with limited mobility",
	},
	Workflow: []Step{
		{Label: "Gesture Detection", Sub: "Webcam Monitor"},
		{Label: "Trigger Event", Sub: "Implicit Action"},
		{Label: "Screen Capture", Sub: "PyAutoGUI"},
		{Label: "LAN Transfer", Sub: "HTTP Server"},
	},
}

var techContent = TechContent{
	Title:    "Technologies Required",
	Subtitle: "Standard stack used in the development of Air Magic Interaction",
	Techs: []TechEntry{
		{Title: "Python 3.x", Desc: "Core backend & processing logic", Color: "blue"},
		{Title: "OpenCV", Desc: "Computer vision & image processing", Color: "green"},
		{Title: "MediaPipe", Desc: "Lightweight ML for hand tracking", Color: "red"},
		{Title: "Flask", Desc: "Minimal web server for data transfer", Color: "orange"},
		{Title: "PyAutoGUI", Desc: "System-level screenshot automation", Color: "indigo"},
		{Title: "HTTP over LAN", Desc: "Data transfer protocol", Color: "cyan"},
	},
	Tools: []string{
		"Visual Studio Code",
		"PowerShell / Cmd",
		"NumPy",
		"Requests Library",
	},
}

// Contact details are deliberately left out of the roster.
var teamContent = TeamContent{
	Title:    "Project Team",
	Subtitle: "Batch No: 17 | Narayana Engineering College",
	Members: []Member{
		{SNo: 1, RollNo: "22F11A0503", Name: "A. HARSHA CHAITANYA"},
		{SNo: 2, RollNo: "22F11A0524", Name: "K. PRAVEEN KUMAR"},
		{SNo: 3, RollNo: "22F11A0599", Name: "B. SRIDHAR RAJU"},
	},
	Mentors: []string{"Guide", "Project Coordinator", "HOD"},
}

var simulation = SimulationContent{
	Title:       "Live Interaction",
	Description: "Show a 'V' sign or hold fingers together in front of the source camera to capture and transfer a frame to the receiver.",
	SessionURL:  "/ws/session",
	CameraURL:   "/ws/camera",
}

// NavItem is one sidebar entry.
type NavItem struct {
	Name  View   `json:"name"`
	Label string `json:"label"`
}

// Layout is the page chrome around the panels.
type Layout struct {
	College    string    `json:"college"`
	Department string    `json:"department"`
	Badge      string    `json:"badge"`
	Footer     string    `json:"footer"`
	Nav        []NavItem `json:"nav"`
}

// PageLayout returns the header, footer and navigation labels.
func PageLayout() Layout {
	nav := make([]NavItem, 0, len(All()))
	for _, v := range All() {
		nav = append(nav, NavItem{Name: v, Label: Label(v)})
	}
	return Layout{
		College:    "Narayana Engineering College",
		Department: "Department of Computer Science & Engineering",
		Badge:      "BATCH NO: 17",
		Footer:     "© 2024 Department of Computer Science & Engineering | Narayana Engineering College",
		Nav:        nav,
	}
}
