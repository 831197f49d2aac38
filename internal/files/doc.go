// Package files provides file system discovery for the stock data folders.
//
// Each dataset version lives in its own folder under the data root and holds
// one CSV file per stock. File names usually share a common suffix and the
// part in front of it is the stock name. Any other .csv file is a stock
// named after the file:
//
//	StockAnalyticaData/v0/RELIANCE__EQ__NSE__NSE__MINUTE.csv
//	StockAnalyticaData/v0/TCS__EQ__NSE__NSE__MINUTE.csv
//	StockAnalyticaData/v0/WIPRO.csv
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.DataRoot)
//	stockFiles, err := discovery.FindFilesByExtension("v0", files.DataFileExtension)
//	for _, f := range stockFiles {
//	    stock := files.StockNameFromFile(f.Path, config.DefaultFileSuffix)
//	    // ...
//	}
package files
