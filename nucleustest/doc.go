// Package nucleustest starts containers inside tests and resolves
// components under synthetic requests.
//
// Start fails the test on any start error and registers a cleanup that
// shuts the container down when the test ends, whatever its outcome:
//
//	func TestScopes(t *testing.T) {
//	    h := nucleustest.Start(t, []string{"DAS", "DafEar.base"}, "/atg/dynamo/MyComponent",
//	        nucleus.WithLayer(nucleustest.Fixtures()))
//	    req := h.NewSessionRequest("mySessionId", request.ModeNew)
//	    if h.ResolveWithRequest(req, "/RequestComponent") == nil {
//	        t.Error("request component is nil")
//	    }
//	}
//
// Fixtures is a configuration layer defining one component per scope.
package nucleustest
