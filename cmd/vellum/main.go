// Command vellum opens the vector editor core in a window or drives it
// headlessly to render scene fixtures and replay input scripts.
package main

func main() {
	Execute()
}
