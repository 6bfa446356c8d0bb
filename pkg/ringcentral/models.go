package ringcentral

import "time"

// CallLogResponse is one page of the account call-log listing
type CallLogResponse struct {
	URI        string          `json:"uri,omitempty"`
	Records    []CallLogRecord `json:"records"`
	Navigation Navigation      `json:"navigation,omitempty"`
	Paging     Paging          `json:"paging,omitempty"`
}

// HasNextPage reports whether the page carries a cursor to a following
// page. Traversal terminates only when this returns false; a page with
// zero records and a cursor still continues.
func (r *CallLogResponse) HasNextPage() bool {
	return r.Navigation.NextPage != nil && r.Navigation.NextPage.URI != ""
}

// Navigation carries the cursor links between pages of a listing
type Navigation struct {
	FirstPage    *PageRef `json:"firstPage,omitempty"`
	NextPage     *PageRef `json:"nextPage,omitempty"`
	PreviousPage *PageRef `json:"previousPage,omitempty"`
	LastPage     *PageRef `json:"lastPage,omitempty"`
}

// PageRef is an absolute link to one page of results
type PageRef struct {
	URI string `json:"uri"`
}

// Paging describes this page's position within the result set
type Paging struct {
	Page          int `json:"page,omitempty"`
	PerPage       int `json:"perPage,omitempty"`
	PageStart     int `json:"pageStart,omitempty"`
	PageEnd       int `json:"pageEnd,omitempty"`
	TotalPages    int `json:"totalPages,omitempty"`
	TotalElements int `json:"totalElements,omitempty"`
}

// CallLogRecord is a single call-log entry
type CallLogRecord struct {
	ID               string         `json:"id"`
	URI              string         `json:"uri,omitempty"`
	SessionID        string         `json:"sessionId,omitempty"`
	StartTime        time.Time      `json:"startTime"`
	Duration         int            `json:"duration,omitempty"`
	Type             string         `json:"type,omitempty"`
	Direction        string         `json:"direction,omitempty"`
	Action           string         `json:"action,omitempty"`
	Result           string         `json:"result,omitempty"`
	Transport        string         `json:"transport,omitempty"`
	LastModifiedTime time.Time      `json:"lastModifiedTime,omitempty"`
	From             CallParty      `json:"from,omitempty"`
	To               CallParty      `json:"to,omitempty"`
	Recording        *RecordingInfo `json:"recording,omitempty"`
	Legs             []CallLeg      `json:"legs,omitempty"`
}

// HasRecording reports whether a stored recording is attached to the
// call
func (r *CallLogRecord) HasRecording() bool {
	return r.Recording != nil
}

// CallParty identifies one side of a call
type CallParty struct {
	PhoneNumber     string `json:"phoneNumber,omitempty"`
	ExtensionNumber string `json:"extensionNumber,omitempty"`
	Name            string `json:"name,omitempty"`
	Location        string `json:"location,omitempty"`
}

// Display returns the most specific identifier the party carries
func (p CallParty) Display() string {
	switch {
	case p.PhoneNumber != "":
		return p.PhoneNumber
	case p.ExtensionNumber != "":
		return "ext. " + p.ExtensionNumber
	case p.Name != "":
		return p.Name
	default:
		return "unknown"
	}
}

// RecordingInfo points to the stored recording of a call
type RecordingInfo struct {
	ID         string `json:"id"`
	URI        string `json:"uri,omitempty"`
	Type       string `json:"type,omitempty"`
	ContentURI string `json:"contentUri,omitempty"`
}

// CallLeg is one segment of a multi-leg call
type CallLeg struct {
	StartTime time.Time `json:"startTime,omitempty"`
	Duration  int       `json:"duration,omitempty"`
	Direction string    `json:"direction,omitempty"`
	Result    string    `json:"result,omitempty"`
	LegType   string    `json:"legType,omitempty"`
	From      CallParty `json:"from,omitempty"`
	To        CallParty `json:"to,omitempty"`
}

// TokenResponse is the OAuth token endpoint's reply
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}
