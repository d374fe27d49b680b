package rencom

// UCP groups the Universal Commerce Protocol namespaces: merchant
// discovery, product search across merchant catalogs, and click
// analytics.
type UCP struct {
	Merchants *MerchantsClient
	Products  *ProductsClient
	Analytics *AnalyticsClient
}
