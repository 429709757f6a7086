package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/pumpedcity/internal/core/domain"
	"github.com/samirrijal/pumpedcity/internal/pkg/metrics"
)

func parkingToGraph(p domain.BikeParking) map[string]interface{} {
	m := map[string]interface{}{
		"id":         p.ID,
		"address":    p.Address,
		"location":   map[string]interface{}{"lat": p.Location.Lat, "lon": p.Location.Lon},
		"spaces":     p.Spaces,
		"capacity":   p.Capacity,
		"updated_at": p.UpdatedAt.Format(time.RFC3339),
	}
	if p.Distance != nil {
		m["distance"] = *p.Distance
	}
	return m
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	limits := deps.searchLimits()

	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	parkingType := graphql.NewObject(graphql.ObjectConfig{
		Name: "BikeParking",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"address":    &graphql.Field{Type: graphql.String},
			"location":   &graphql.Field{Type: geoPointType},
			"spaces":     &graphql.Field{Type: graphql.Int},
			"capacity":   &graphql.Field{Type: graphql.Int},
			"distance":   &graphql.Field{Type: graphql.Float, Description: "Meters from the query point"},
			"updated_at": &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"parkingsNearby": &graphql.Field{
				Type:        graphql.NewList(parkingType),
				Description: "Bike parkings near a location, nearest first",
				Args: graphql.FieldConfigArgument{
					"latitude":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"longitude": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius":    &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: limits.DefaultRadius},
					"limit":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: limits.MaxResults},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["latitude"].(float64)
					lon := p.Args["longitude"].(float64)
					radius := p.Args["radius"].(float64)
					limit := p.Args["limit"].(int)

					if !(domain.Coordinate{Lat: lat, Lon: lon}).Valid() {
						metrics.ParkingSearches.WithLabelValues("graphql", "rejected").Inc()
						return nil, errors.New("latitude/longitude out of range")
					}
					if radius <= 0 || radius > limits.MaxRadius {
						metrics.ParkingSearches.WithLabelValues("graphql", "rejected").Inc()
						return nil, fmt.Errorf("radius must be greater than 0 and at most %g meters", limits.MaxRadius)
					}
					if limit <= 0 || limit > limits.MaxResults {
						limit = limits.MaxResults
					}

					parkings, err := deps.Parkings.FindNearby(p.Context, lat, lon, radius, limit)
					if err != nil {
						metrics.ParkingSearches.WithLabelValues("graphql", "error").Inc()
						return nil, err
					}
					metrics.ParkingSearches.WithLabelValues("graphql", "ok").Inc()
					metrics.ParkingSearchResults.WithLabelValues("graphql").Observe(float64(len(parkings)))

					result := make([]map[string]interface{}, 0, len(parkings))
					for _, pk := range parkings {
						result = append(result, parkingToGraph(pk))
					}
					return result, nil
				},
			},
			"parking": &graphql.Field{
				Type:        parkingType,
				Description: "Get a bike parking by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					pk, err := deps.Parkings.GetByID(p.Context, id)
					if errors.Is(err, domain.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return parkingToGraph(*pk), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil || req.Query == "" {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
