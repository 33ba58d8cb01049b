package models

// StopInput is one address entry in a planning request.
type StopInput struct {
	Address string `json:"address"`
	Note    string `json:"note,omitempty"`
}

// PlanRequest is the manual planning input: an explicit start point, ordered
// intermediate waypoints, and an explicit end point.
type PlanRequest struct {
	Name       string      `json:"name,omitempty"`
	StartPoint StopInput   `json:"startPoint"`
	Waypoints  []StopInput `json:"waypoints"`
	EndPoint   StopInput   `json:"endPoint"`
}

// SheetImportRequest asks for a route to be planned from a shared Google
// Sheet link.
type SheetImportRequest struct {
	URL string `json:"url"`
}

// Stop is one location on a planned route, in travel order.
type Stop struct {
	ID       string `json:"id"`
	Address  string `json:"address"`
	Note     string `json:"note,omitempty"`
	Lat      string `json:"lat,omitempty"`
	Lng      string `json:"lng,omitempty"`
	IsStart  bool   `json:"isStart"`
	IsEnd    bool   `json:"isEnd"`
	Sequence int    `json:"sequence"`
}

// Route is a planned route with its ordered stops.
type Route struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Distance         string    `json:"distance"`
	Duration         string    `json:"duration"`
	MapsURL          string    `json:"mapsUrl"`
	NotificationSent bool      `json:"notificationSent"`
	CreatedAt        Timestamp `json:"createdAt"`
	Stops            []Stop    `json:"stops"`
}

// RouteList is the route history response.
type RouteList struct {
	Items []Route `json:"items"`
}
