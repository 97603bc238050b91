package main

import (
	"os"

	"github.com/amplify-dev/amplify/board"
	"github.com/amplify-dev/amplify/cache"
	"github.com/amplify-dev/amplify/server"
	"github.com/amplify-dev/amplify/server/middlewares"
	"github.com/amplify-dev/amplify/utils"
	"github.com/amplify-dev/amplify/utils/dotenv"
	. "github.com/amplify-dev/amplify/utils/flag"
	. "github.com/amplify-dev/amplify/utils/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	Parse()
	InitLogger()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	db, err := utils.GetDBConnection()
	if err != nil {
		Log.Fatal("cannot connect to database: ", err)
	}
	utils.DatabaseSetupAndMigration(db)

	snapshots, err := cache.GetRedisPostStore()
	if err != nil {
		Log.Fatal("cannot connect to redis: ", err)
	}
	markers, err := cache.GetRedisMarkerStore()
	if err != nil {
		Log.Fatal("cannot connect to redis: ", err)
	}

	engine := board.NewEngine(db, snapshots, markers)

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(cors.Default())
	if !*ByPassAuth {
		router.Use(middlewares.ViewerIdentity())
	}

	server.NewAPIHandler(engine).RegisterRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	Log.Info("api server listening on :", port)
	if err := router.Run(":" + port); err != nil {
		Log.Fatal(err)
	}
}
