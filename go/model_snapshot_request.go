package boardserver

// SnapshotRequest is the body of POST /projects/{projectId}/snapshots.
// ShapesData is opaque JSON text and is stored verbatim.
type SnapshotRequest struct {
	ShapesData *string `json:"shapesData"`
}

func (r SnapshotRequest) shapesData() string {
	if r.ShapesData == nil {
		return ""
	}
	return *r.ShapesData
}
