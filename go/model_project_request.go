package boardserver

// ProjectRequest is the body of POST /projects and PATCH /projects/{projectId}.
type ProjectRequest struct {
	Title *string `json:"title"`
}

func (r ProjectRequest) title() string {
	if r.Title == nil {
		return ""
	}
	return *r.Title
}
