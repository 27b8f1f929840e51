package main

// @title           FoodLog API
// @version         1.0
// @description     Scan-flow service: pick or drop a meal photo, watch the analysis progress, read the nutrition results.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	Execute()
}
