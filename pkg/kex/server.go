package kex

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type kexController struct {
	store Store
}

func (kc *kexController) registerRoutes(r *gin.Engine) {
	r.GET("/kex/v1/:key", func(c *gin.Context) {
		value, getErr := kc.store.Get(c.Param("key"))
		if getErr != nil {
			if errors.Is(getErr, ErrKeyNotFound) {
				c.JSON(404, gin.H{
					"error": "key does not exist",
				})
				return
			}
			c.JSON(500, gin.H{
				"error": getErr.Error(),
			})
			return
		}
		c.JSON(200, gin.H{
			"value": value,
		})
	})
	r.PUT("/kex/v1", func(c *gin.Context) {
		var request setValueRequest
		if bindErr := c.BindJSON(&request); bindErr != nil {
			c.JSON(400, gin.H{
				"error": bindErr.Error(),
			})
			return
		}
		if request.Key == "" {
			c.JSON(400, gin.H{
				"error": "key must not be empty",
			})
			return
		}
		if setErr := kc.store.Set(request.Key, request.Value); setErr != nil {
			c.JSON(500, gin.H{
				"error": setErr.Error(),
			})
			return
		}
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})
}

// NewServer bootstraps the creation of the gin engine serving the relay API
func NewServer(store Store) *gin.Engine {
	r := gin.Default()
	controller := &kexController{store: store}
	controller.registerRoutes(r)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "The relay stores whatever you put in it and tells it to anyone who knows the key." +
				" Do not put anything in it that is not sealed.",
		})
	})
	return r
}

// Serve runs the relay server on the given address. It only returns on
// listener failure.
func Serve(addr string, store Store) error {
	logrus.Infof("Starting key-exchange relay server on %s", addr)
	return NewServer(store).Run(addr)
}
