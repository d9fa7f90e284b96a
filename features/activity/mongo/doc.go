// Package mongo provides a MongoDB-backed implementation of activity.Repository.
// Build the low-level client via features/activity/mongo/clients/mongo from a
// provider.QueryContext and pass it to NewRepository so services can persist
// activities without depending on the driver.
package mongo
