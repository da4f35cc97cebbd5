package server

import "fmt"

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo() {
	s.displayEndpoints()
	s.displayRequestLimitInfo()
}

// displayEndpoints shows available API endpoints
func (s *Server) displayEndpoints() {
	fmt.Println("Available endpoints:")
	fmt.Println("  GET  /health          - Health check")
	fmt.Println("  GET  /ready           - Readiness probe")
	fmt.Println("  POST /api/v1/analyze  - Score job compatibility")
	fmt.Println("  POST /api/v1/trends   - Analyze market trends")
	fmt.Println("  POST /api/v1/rank     - Rank job postings")
	fmt.Println("  POST /api/v1/profile  - Extract candidate profile")
	fmt.Println("  POST /api/v1/tailor   - Tailor resume")
}

// displayRequestLimitInfo shows request size limit configuration
func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Printf("Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Println("Request size limit: DISABLED")
		fmt.Println("WARNING: No request size limits configured!")
	}
}
