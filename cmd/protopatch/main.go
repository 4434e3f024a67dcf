// Command protopatch loads prototype patch files against a content fixture
// and reports what they would change.
package main

func main() {
	Execute()
}
