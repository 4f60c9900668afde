// Package autowire builds container services from their constructors.
//
// A Catalog records, for each type, the constructor that builds it. When the
// container asks the Factory for a type, the Factory looks up the type names
// of the constructor's parameters, fetches one instance of each from the
// container, and calls the constructor with them in parameter order.
//
// The parameter type names are computed by reflection once per type and kept
// in a ParameterCache. With EnableCache the cache is also written to a YAML
// file after every new entry and read back on the next start, so a warmed-up
// process never reflects on a constructor:
//
//	catalog := autowire.NewCatalog()
//	catalog.MustProvide(NewFooService)
//	catalog.MustProvide(NewBarService, autowire.ParamNames("foo", "qux"))
//
//	factory := autowire.NewFactory(catalog)
//	factory.EnableCache("storage/autowire.cache.yaml")
//
//	for _, name := range catalog.Names() {
//	    c.Singleton(name, func(c *container.Container) (any, error) {
//	        return factory.Create(c, name)
//	    })
//	}
//
// The cache is never validated against the constructors. After changing a
// constructor signature, delete the cache file.
package autowire
