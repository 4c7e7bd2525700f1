package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dining-hall/internal/handler"
)

// Access is the authorization requirement of a route.
type Access int

const (
	Public        Access = iota // no credential
	Authenticated               // valid token
	Admin                       // valid token and role "admin"
	Self                        // valid token whose email equals the SelfParam path parameter
)

func (a Access) String() string {
	switch a {
	case Authenticated:
		return "authenticated"
	case Admin:
		return "admin"
	case Self:
		return "self"
	}
	return "public"
}

// route declares one endpoint.  Every authorization and caching decision
// lives in this table; handlers never check identity themselves.
type route struct {
	Method      string
	Path        string
	Access      Access
	SelfParam   string
	Handler     echo.HandlerFunc
	Cached      bool // GET listing served from the response cache
	Invalidates bool // successful call drops cached listings
}

func routes(d Deps) []route {
	m, rv, rq, u, p, c := d.Meals, d.Reviews, d.Requests, d.Users, d.Payments, d.Complaints

	return []route{
		{Method: "POST", Path: "/jwt", Access: Public, Handler: d.Auth.IssueToken},

		// meals
		{Method: "GET", Path: "/meals", Access: Public, Handler: m.ListAvailable, Cached: true},
		{Method: "GET", Path: "/mealsUpcoming", Access: Public, Handler: m.ListUpcoming, Cached: true},
		{Method: "GET", Path: "/upcomingMeals", Access: Public, Handler: m.ListUpcomingByLikes, Cached: true},
		{Method: "GET", Path: "/mealsAdmin", Access: Public, Handler: m.ListAdmin},
		{Method: "GET", Path: "/meals/:id", Access: Public, Handler: m.Get},
		{Method: "POST", Path: "/meals/image", Access: Admin, Handler: d.Uploads.UploadMealImage},
		{Method: "POST", Path: "/meals/:email", Access: Admin, Handler: m.Create, Invalidates: true},
		{Method: "PATCH", Path: "/meals/:id", Access: Admin, Handler: m.Update, Invalidates: true},
		{Method: "DELETE", Path: "/meals/:id", Access: Admin, Handler: m.Delete, Invalidates: true},
		{Method: "PATCH", Path: "/upcomingMeals/:id", Access: Admin, Handler: m.Publish, Invalidates: true},
		{Method: "PATCH", Path: "/likeCount/:id", Access: Authenticated, Handler: m.Like, Invalidates: true},
		{Method: "PATCH", Path: "/mealsReview/:id", Access: Authenticated, Handler: m.CountReview, Invalidates: true},
		{Method: "PATCH", Path: "/meals-likeArray/:id", Access: Authenticated, Handler: m.SetLikers, Invalidates: true},

		// reviews
		{Method: "POST", Path: "/reviews", Access: Authenticated, Handler: rv.Create},
		{Method: "GET", Path: "/reviews", Access: Public, Handler: rv.List},
		{Method: "GET", Path: "/reviews/:id", Access: Public, Handler: rv.ListByMeal},
		{Method: "GET", Path: "/reviews-email/:email", Access: Public, Handler: rv.ListByEmail},
		{Method: "GET", Path: "/reviews-email-title/:email", Access: Public, Handler: rv.FindByEmailTitle},
		{Method: "PATCH", Path: "/review/:id", Access: Authenticated, Handler: rv.UpdateText},
		{Method: "PATCH", Path: "/review-like/:id", Access: Authenticated, Handler: rv.MarkLiked},
		{Method: "DELETE", Path: "/review/:id", Access: Authenticated, Handler: rv.Delete},

		// meal requests
		{Method: "POST", Path: "/request", Access: Authenticated, Handler: rq.Create},
		{Method: "GET", Path: "/request", Access: Authenticated, Handler: rq.List},
		{Method: "GET", Path: "/request/:email", Access: Self, SelfParam: "email", Handler: rq.ListByEmail},
		{Method: "PATCH", Path: "/request/:id", Access: Authenticated, Handler: rq.Serve},
		{Method: "DELETE", Path: "/request/:id", Access: Authenticated, Handler: rq.Delete},

		// users
		{Method: "GET", Path: "/users", Access: Admin, Handler: u.List},
		{Method: "POST", Path: "/users", Access: Public, Handler: u.Create},
		{Method: "GET", Path: "/users/:email", Access: Public, Handler: u.Get},
		{Method: "PUT", Path: "/users/:email", Access: Authenticated, Handler: u.UpdateProfile},
		{Method: "DELETE", Path: "/users/:id", Access: Admin, Handler: u.Delete},
		{Method: "GET", Path: "/users/admin/:email", Access: Public, Handler: u.IsAdmin},
		{Method: "PATCH", Path: "/users/admin/:id", Access: Admin, Handler: u.Promote},
		{Method: "GET", Path: "/admin/:email", Access: Admin, Handler: u.Get},

		// payments
		{Method: "POST", Path: "/create-payment-intent", Access: Public, Handler: p.CreateIntent},
		{Method: "POST", Path: "/payments", Access: Public, Handler: p.Record},
		{Method: "GET", Path: "/payments/:email", Access: Self, SelfParam: "email", Handler: p.ListByEmail},

		// complaints
		{Method: "POST", Path: "/complains", Access: Authenticated, Handler: c.Create},
		{Method: "GET", Path: "/complains", Access: Admin, Handler: c.List},
		{Method: "GET", Path: "/complains/:email", Access: Self, SelfParam: "email", Handler: c.ListByEmail},
		{Method: "PATCH", Path: "/complains/:id", Access: Authenticated, Handler: c.UpdateDetails},
		{Method: "PATCH", Path: "/changeStatus/:id", Access: Admin, Handler: c.ChangeStatus},
		{Method: "DELETE", Path: "/complains/:id", Access: Authenticated, Handler: c.Delete},

		// liveness
		{Method: "GET", Path: "/", Access: Public, Handler: handler.Root},
		{Method: "GET", Path: "/healthz", Access: Public, Handler: handler.Health},
	}
}
