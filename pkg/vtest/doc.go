// Package vtest provides testing helpers for vtree views.
//
// # Quick Start
//
// Mount a view into an in-memory document, fire events at its nodes
// and assert on the resulting markup:
//
//	func TestCounter(t *testing.T) {
//	    count := 0
//	    h := vtest.Mount(t, func() *vdom.VNode {
//	        return vdom.Button(vdom.OnClick(func() { count++ }), strconv.Itoa(count))
//	    })
//	    h.Click(h.FindTag("button"))
//	    h.ExpectHTML("<button>1</button>")
//	    h.ExpectConvergent()
//	}
//
// Every event re-renders the view through a vtree.Root, the same way a
// live session does.
//
// # Render Assertions
//
// Assert on server-rendered HTML without mounting:
//
//	vtest.ExpectContains(t, Page(), "Welcome")
//	vtest.ExpectNotContains(t, Page(), "Login")
//	vtest.ExpectAttribute(t, Page(), "class", "btn-primary")
package vtest
