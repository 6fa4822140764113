package pagination

// Controls is the previous/next state of one paginated list.
type Controls struct {
	CurrentPage int       `json:"currentPage"`
	LastPage    int       `json:"lastPage"`
	OnChange    func(int) `json:"-"`
}

func New(current, last int, onChange func(int)) Controls {
	if current < 1 {
		current = 1
	}
	if last < current {
		last = current
	}
	return Controls{CurrentPage: current, LastPage: last, OnChange: onChange}
}

func (c Controls) PrevDisabled() bool { return c.CurrentPage <= 1 }
func (c Controls) NextDisabled() bool { return c.CurrentPage >= c.LastPage }

// Prev reports whether it moved.
func (c Controls) Prev() bool {
	if c.PrevDisabled() {
		return false
	}
	if c.OnChange != nil {
		c.OnChange(c.CurrentPage - 1)
	}
	return true
}

func (c Controls) Next() bool {
	if c.NextDisabled() {
		return false
	}
	if c.OnChange != nil {
		c.OnChange(c.CurrentPage + 1)
	}
	return true
}

// State is the JSON shape list responses carry.
type State struct {
	CurrentPage  int  `json:"currentPage"`
	LastPage     int  `json:"lastPage"`
	PrevDisabled bool `json:"prevDisabled"`
	NextDisabled bool `json:"nextDisabled"`
	PrevPage     *int `json:"prevPage,omitempty"`
	NextPage     *int `json:"nextPage,omitempty"`
}

func (c Controls) State() State {
	s := State{
		CurrentPage:  c.CurrentPage,
		LastPage:     c.LastPage,
		PrevDisabled: c.PrevDisabled(),
		NextDisabled: c.NextDisabled(),
	}
	if !s.PrevDisabled {
		p := c.CurrentPage - 1
		s.PrevPage = &p
	}
	if !s.NextDisabled {
		n := c.CurrentPage + 1
		s.NextPage = &n
	}
	return s
}
